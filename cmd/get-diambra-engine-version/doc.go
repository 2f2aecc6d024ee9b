// Command get-diambra-engine-version prints the installed version of a
// Python package, diambra-engine unless another name is given. A package
// that is not installed exits non-zero without printing a version.
package main
