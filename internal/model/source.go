// Package model defines the data structures shared by the coverage loop.
package model

import "strings"

// Path represents a file system path.
type Path string

// Project is a Python project whose test suite the loop grows.
type Project struct {
	Root       Path
	SourceRoot Path
	TestsRoot  Path
}

// SourceFile is a source path plus its lines, in file order.
type SourceFile struct {
	Path      Path
	Lines     []string
	Functions []string
}

// Text joins the lines back into the file contents.
func (s SourceFile) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Language captures the textual conventions used by the inventory and
// normalizer heuristics. None of these are parsed structurally.
type Language struct {
	Name                 string
	Framework            string
	SourceExt            string
	FuncPrefix           string
	TestFuncPrefix       string
	TestFilePrefix       string
	AssertKeyword        string
	FrameworkImport      string
	Indent               string
	PlaceholderAssertion string
}

// Python is the only language the loop currently targets (pytest + coverage.py).
var Python = Language{
	Name:                 "Python",
	Framework:            "pytest",
	SourceExt:            ".py",
	FuncPrefix:           "def ",
	TestFuncPrefix:       "def test_",
	TestFilePrefix:       "test_",
	AssertKeyword:        "assert",
	FrameworkImport:      "import pytest",
	Indent:               "    ",
	PlaceholderAssertion: `assert False, "Add an assertion here"`,
}
