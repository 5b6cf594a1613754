package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siamroads/service-trip/internal/domain/estimator"
)

// decodeTripRequest reads an estimator request leniently. Fields of the wrong
// type are dropped so the estimator's defaults apply. Only malformed JSON or a
// body that is not an object is an error. An empty body is an empty object.
func decodeTripRequest(body []byte) (estimator.TripRequest, error) {
	var req estimator.TripRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return req, errors.New("invalid JSON body: trailing data")
	}

	req.Origin = coerceString(fields["origin"])
	req.Destination = coerceString(fields["destination"])
	req.Stops = coerceStrings(fields["stops"])
	if b, ok := fields["autoOptimizeStops"].(bool); ok {
		req.AutoOptimizeStops = &b
	}
	req.Days = coerceNumber(fields["days"])
	req.People = coerceNumber(fields["people"])
	req.KmPerLiter = coerceNumber(fields["kmPerLiter"])
	req.FuelPrice = coerceNumber(fields["fuelPrice"])
	return req, nil
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func coerceStrings(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// coerceNumber accepts JSON numbers and numeric strings. Anything else is 0.
func coerceNumber(v interface{}) float64 {
	var raw string
	switch n := v.(type) {
	case json.Number:
		raw = n.String()
	case string:
		raw = strings.TrimSpace(n)
	default:
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
