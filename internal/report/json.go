package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
)

// jsonDoc is the §6 Report wire shape: the external interface other
// tools consume, keyed exactly as `dcp_path`, `dcp_size`, `valid`,
// `profile`, `date`, `duration_seconds`, `message`,
// `unique_checks_count` and `checks[]`.
type jsonDoc struct {
	DCPPath           string      `json:"dcp_path"`
	DCPSize           int64       `json:"dcp_size"`
	Valid             bool        `json:"valid"`
	Profile           string      `json:"profile"`
	Date              string      `json:"date"`
	DurationSeconds   float64     `json:"duration_seconds"`
	Message           string      `json:"message"`
	UniqueChecksCount int         `json:"unique_checks_count"`
	Checks            []jsonCheck `json:"checks"`
}

type jsonCheck struct {
	Name           string        `json:"name"`
	PrettyName     string        `json:"pretty_name"`
	Doc            string        `json:"doc,omitempty"`
	Bypass         bool          `json:"bypass"`
	SecondsElapsed float64       `json:"seconds_elapsed"`
	AssetStack     []string      `json:"asset_stack,omitempty"`
	Errors         []jsonFinding `json:"errors,omitempty"`
}

type jsonFinding struct {
	SubName     string `json:"sub_name,omitempty"`
	Message     string `json:"message"`
	Criticality string `json:"criticality"`
}

// reportDateLayout is the §6 `date` field's literal "DD/MM/YYYY
// HH:MM:SS" format.
const reportDateLayout = "02/01/2006 15:04:05"

func toJSONDoc(r *Report) jsonDoc {
	var message bytes.Buffer
	WriteText(&message, r)

	doc := jsonDoc{
		DCPPath:           r.PackagePath,
		DCPSize:           r.DCPSize,
		Valid:             r.Valid,
		Profile:           r.Profile,
		Date:              r.GeneratedAt.Format(reportDateLayout),
		DurationSeconds:   r.Duration.Seconds(),
		Message:           message.String(),
		UniqueChecksCount: r.UniqueChecksCount,
	}
	for _, c := range r.Checks {
		jc := jsonCheck{
			Name:           c.Name,
			PrettyName:     c.PrettyName,
			Doc:            c.Doc,
			Bypass:         c.Bypass,
			SecondsElapsed: c.SecondsElapsed,
			AssetStack:     c.AssetStack,
		}
		for _, e := range c.Errors {
			jc.Errors = append(jc.Errors, jsonFinding{
				SubName:     e.SubName,
				Message:     e.Message,
				Criticality: string(e.Criticality),
			})
		}
		doc.Checks = append(doc.Checks, jc)
	}
	return doc
}

// WriteJSON renders the report as indented JSON, the `--format json`
// (and `dict`, which the CLI serializes identically) output of §6.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSONDoc(r))
}

// WriteJSONGzip writes the gzip-compressed JSON artifact (`.json.gz`),
// using klauspost/compress's gzip implementation per the domain-stack
// wiring plan rather than the stdlib's compress/gzip.
func WriteJSONGzip(w io.Writer, r *Report) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(toJSONDoc(r)); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
