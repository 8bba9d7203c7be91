package server

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/scoring"
)

// submitRequest is the body of POST /api/results.
type submitRequest struct {
	TextID       string           `json:"textId" binding:"required"`
	SubjectID    string           `json:"subjectId" binding:"required"`
	SubjectLabel string           `json:"subjectLabel"`
	TextContent  string           `json:"textContent" binding:"required"`
	TypedContent string           `json:"typedContent"`
	Duration     int              `json:"duration" binding:"min=1"`
	WPM          int              `json:"wpm" binding:"min=0"`
	Accuracy     int              `json:"accuracy" binding:"min=0,max=100"`
	ErrorCount   int              `json:"errorCount" binding:"min=0"`
	WrongWords   int              `json:"wrongWords" binding:"min=0"`
	MissingWords int              `json:"missingWords" binding:"min=0"`
	ExtraWords   int              `json:"extraWords" binding:"min=0"`
	Marks        float64          `json:"marks" binding:"min=0,max=40"`
	TotalMarks   int              `json:"totalMarks" binding:"eq=40"`
	ErrorDetails []model.WordDiff `json:"errorDetails"`
}

func (r submitRequest) result() model.Result {
	details := r.ErrorDetails
	if details == nil {
		details = []model.WordDiff{}
	}
	return model.Result{
		TextID:       r.TextID,
		SubjectID:    r.SubjectID,
		SubjectLabel: r.SubjectLabel,
		TextContent:  r.TextContent,
		TypedContent: r.TypedContent,
		Duration:     r.Duration,
		WPM:          r.WPM,
		Accuracy:     r.Accuracy,
		ErrorCount:   r.ErrorCount,
		WrongWords:   r.WrongWords,
		MissingWords: r.MissingWords,
		ExtraWords:   r.ExtraWords,
		Marks:        r.Marks,
		TotalMarks:   r.TotalMarks,
		ErrorDetails: details,
	}
}

var registerOnce sync.Once

// registerValidations hooks the submit rules into gin's validator.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		v.RegisterStructValidation(submitConsistency, submitRequest{})
	})
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// submitConsistency rejects blank identifiers and marks that disagree with
// the word counts.
func submitConsistency(sl validator.StructLevel) {
	r := sl.Current().Interface().(submitRequest)
	if r.TextID != "" && strings.TrimSpace(r.TextID) == "" {
		sl.ReportError(r.TextID, "textId", "TextID", "required", "")
	}
	if r.SubjectID != "" && strings.TrimSpace(r.SubjectID) == "" {
		sl.ReportError(r.SubjectID, "subjectId", "SubjectID", "required", "")
	}
	if r.WrongWords < 0 || r.MissingWords < 0 {
		return
	}
	if r.Marks != scoring.Marks(r.WrongWords, r.MissingWords) {
		sl.ReportError(r.Marks, "marks", "Marks", "marksmatch", "")
	}
}

// describe turns validator errors into the details string of a 400.
func describe(errs validator.ValidationErrors) string {
	problems := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is required")
		case "marksmatch":
			problems = append(problems, "marks do not match wrong and missing words")
		case "eq":
			problems = append(problems, fmt.Sprintf("%s must be %s", fe.Field(), fe.Param()))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(problems, "; ")
}
