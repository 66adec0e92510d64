// Package compliance runs a checklist of Indian commercial-contract
// requirements over contract text.
package compliance

import (
	"fmt"
	"strings"

	"github.com/ppiankov/contractlens/internal/model"
)

// Item is one checklist entry. It passes when any of its words occurs in the text.
type Item struct {
	Name  string
	Words []string
}

// Checklist is the default set of requirements
var Checklist = []Item{
	{Name: "GST registration", Words: []string{"gst", "registration"}},
	{Name: "PAN details", Words: []string{"pan", "details"}},
	{Name: "jurisdiction specified", Words: []string{"jurisdiction", "specified"}},
	{Name: "governing law mentioned", Words: []string{"governing", "law", "mentioned"}},
	{Name: "dispute resolution mechanism", Words: []string{"dispute", "arbitration", "mediation"}},
}

// HighRiskPhrases are flagged wherever they occur
var HighRiskPhrases = []string{
	"unlimited liability",
	"personal guarantee",
	"automatic renewal",
	"exclusive dealing",
}

// Recommendations accompany every report
var Recommendations = []string{
	"Include GST registration details",
	"Specify governing law as Indian law",
	"Add dispute resolution mechanism",
}

// Check evaluates the checklist against text
func Check(text string) *model.ComplianceReport {
	lower := strings.ToLower(text)

	report := &model.ComplianceReport{
		Total:           len(Checklist),
		MissingItems:    []string{},
		HighRiskFound:   []string{},
		Recommendations: append([]string(nil), Recommendations...),
	}

	for _, item := range Checklist {
		if anyWord(lower, item.Words) {
			report.Satisfied++
		} else {
			report.MissingItems = append(report.MissingItems, item.Name)
		}
	}

	for _, phrase := range HighRiskPhrases {
		if strings.Contains(lower, phrase) {
			report.HighRiskFound = append(report.HighRiskFound, phrase)
		}
	}

	report.Score = fmt.Sprintf("%d/%d", report.Satisfied, report.Total)
	return report
}

func anyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
