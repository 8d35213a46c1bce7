package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request bodies here are small JSON documents (booking forms, inquiry
// forms, admin CRUD payloads); anything past this size is cut off before
// decoding.
const MaxBodyBytes = 1 << 20

var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrTrailingData = errors.New("body must contain a single JSON object")
)

// DecodeJSON decodes exactly one JSON object from body into v. Unknown
// fields are rejected so a typo in an admin payload surfaces as a 400
// instead of a silently ignored setting.
func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.InputOffset() > MaxBodyBytes {
		return ErrBodyTooLarge
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

// ValidationDetails flattens validator errors into a field→rule map for
// the error response body. Rules with a parameter keep it, so "min=10"
// tells the client the actual bound.
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		rule := err.Tag()
		if p := err.Param(); p != "" {
			rule += "=" + p
		}
		details[err.Field()] = rule
	}
	return details
}

// ParseLimitOffset reads pagination from the query string. limit must be
// positive and is clamped to maxLimit; offset must be non-negative.
func ParseLimitOffset(values url.Values, defaultLimit, maxLimit int64) (int64, int64, error) {
	limit, err := queryInt(values, "limit", defaultLimit)
	if err != nil || limit <= 0 {
		return 0, 0, errors.New("invalid limit")
	}
	offset, err := queryInt(values, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, errors.New("invalid offset")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, offset, nil
}

func queryInt(values url.Values, key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
