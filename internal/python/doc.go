// Package python locates a Python interpreter and runs the small embedded
// scripts through which romkit reaches the diambra Python libraries: the
// diambra-arena ROM checksum routine and the installed-package metadata API.
//
// Scripts run as `<interpreter> -c <script> args...`; their stderr is always
// streamed so tracebacks reach the terminal untouched, and exit statuses are
// preserved in the returned errors.
package python
