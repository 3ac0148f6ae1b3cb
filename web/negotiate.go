package web

import (
	"mime"
	"sort"
	"strconv"
	"strings"

	"github.com/zoobzio/egress"
)

// mediaTyper is implemented by codecs that answer several Accept values.
type mediaTyper interface {
	MediaTypes() []string
}

type mediaRange struct {
	value string
	q     float64
}

// specificity ranks exact types above type/* above */*.
func (mr mediaRange) specificity() int {
	switch {
	case mr.value == "*/*":
		return 0
	case strings.HasSuffix(mr.value, "/*"):
		return 1
	default:
		return 2
	}
}

// negotiate picks the codec for an Accept header. Ranges are tried in
// descending quality, then descending specificity; the first codec is the
// fallback when nothing matches.
func negotiate(accept string, codecs []egress.Codec) egress.Codec {
	if len(codecs) == 0 {
		return nil
	}
	for _, mr := range parseAccept(accept) {
		if mr.value == "*/*" {
			return codecs[0]
		}
		for _, c := range codecs {
			if accepts(c, mr.value) {
				return c
			}
		}
	}
	return codecs[0]
}

func parseAccept(accept string) []mediaRange {
	var ranges []mediaRange
	for _, part := range strings.Split(accept, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mt, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, mediaRange{value: mt, q: q})
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].q != ranges[j].q {
			return ranges[i].q > ranges[j].q
		}
		return ranges[i].specificity() > ranges[j].specificity()
	})
	return ranges
}

func accepts(c egress.Codec, want string) bool {
	types := []string{c.ContentType()}
	if mt, ok := c.(mediaTyper); ok {
		types = mt.MediaTypes()
	}

	if major, ok := strings.CutSuffix(want, "/*"); ok {
		for _, t := range types {
			if strings.HasPrefix(t, major+"/") {
				return true
			}
		}
		return false
	}
	for _, t := range types {
		if t == want {
			return true
		}
		// Structured syntax suffix, e.g. application/*+json.
		if major, suffix, ok := strings.Cut(t, "/*+"); ok {
			if strings.HasPrefix(want, major+"/") && strings.HasSuffix(want, "+"+suffix) {
				return true
			}
		}
	}
	return false
}
