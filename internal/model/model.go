// Package model defines core data structures for mutscope.
package model

// TestCase is a parameterized test-case declaration extracted from a test
// method, ready for text-level splicing.
type TestCase struct {
	// Body is the full single-line text of the case declaration.
	Body string
	// InsertionLine is the 1-based line after which a generated sibling
	// case can be spliced.
	InsertionLine int
	// Closing is the delimiter expected to follow the spliced text:
	// ']' for inline attribute cases, ',' for case-source entries.
	Closing byte
}

// MethodParameterList describes where a new parameter can be appended to a
// method's parameter list.
type MethodParameterList struct {
	// OriginalText is the last physical line of the parameter-list text.
	OriginalText string
	// InsertionLine is the 1-based line after which a parameter line can
	// be inserted.
	InsertionLine int
}

// MethodInfo is a reported production method.
type MethodInfo struct {
	Name      string
	Signature string
	Line      int
}

// ClassReport summarizes one analyzed class declaration.
type ClassReport struct {
	FullName string
	File     string
	Line     int
	Excluded bool
	Methods  []MethodInfo
}

// TestMatch records a test method correlated to a source method.
type TestMatch struct {
	TestClass  string
	TestMethod string
	File       string
	Line       int
}

// Analysis is the complete result of one repository pass, ready for
// serialization.
type Analysis struct {
	Root    string
	Classes []ClassReport
	Matches []TestMatch
}
