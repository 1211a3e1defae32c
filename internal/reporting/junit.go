// Package reporting renders a finished run for downstream consumers: JUnit
// XML for CI systems and a compressed artifact bundle for upload.
package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/microsoft/adbsmoke/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one harness run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure represents a failed check.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a summary to JUnit XML form. Each check becomes a
// test case; warn checks are reported as passing since they never flip the
// run's status.
func ConvertToJUnit(summary *models.Summary, startedAt time.Time) *JUnitTestSuites {
	var totalMs int64
	failures := 0
	for _, c := range summary.Checks {
		totalMs += c.DurationMs
		if c.Status == models.StatusFail {
			failures++
		}
	}
	durationSec := float64(totalMs) / 1000.0

	suite := JUnitTestSuite{
		Name:      summary.Tool,
		Tests:     len(summary.Checks),
		Failures:  failures,
		Time:      durationSec,
		Timestamp: startedAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "serial", Value: summary.Serial},
			{Name: "out_dir", Value: summary.OutDir},
			{Name: "status", Value: string(summary.Status)},
		},
	}

	for _, c := range summary.Checks {
		suite.TestCases = append(suite.TestCases, convertCheck(summary.Serial, c))
	}

	return &JUnitTestSuites{
		Tests:      len(summary.Checks),
		Failures:   failures,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func convertCheck(serial string, c models.CheckResult) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      c.Name,
		Classname: serial,
		Time:      float64(c.DurationMs) / 1000.0,
	}
	if c.Status == models.StatusFail {
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: %s", c.Name, c.ErrorCode),
			Type:    c.ErrorCode,
			Body:    c.Error,
		}
	}
	return tc
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(summary *models.Summary, startedAt time.Time, path string) error {
	suites := ConvertToJUnit(summary, startedAt)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0o644)
}
