// Package pkgmeta answers questions about installed and published Python
// distributions: the installed version of a package (through the host
// interpreter's metadata facility), the newest release on PyPI, and the
// engine container image that matches an installed engine version.
package pkgmeta
