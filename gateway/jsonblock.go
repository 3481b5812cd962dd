package gateway

import (
	"encoding/json"
	"regexp"
	"strings"

	"lexbrief-backend/models"
)

// fencedJSON matches the first ```json or bare ``` fenced block
var fencedJSON = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\r?\n?(.*?)\r?\n?[ \t]*```")

// ExtractJSONBlock returns the body of the first fenced code block in a model
// response, or the whole response when there is none. Surrounding whitespace is
// trimmed either way, so fenced and unfenced JSON decode identically.
func ExtractJSONBlock(response string) string {
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// parseKeyPoints decodes a key-point response. ok is false and the all-empty
// default is returned when the response is not a JSON object. A category that is
// null or not a list of strings comes back empty and is named in reason while
// the other categories are kept.
func parseKeyPoints(response string) (kp models.KeyPoints, reason string, ok bool) {
	body := ExtractJSONBlock(response)

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return models.EmptyKeyPoints(), "malformed JSON: " + err.Error(), false
	}
	invalid, err := validateKeyPoints(raw)
	if err != nil {
		return models.EmptyKeyPoints(), err.Error(), false
	}

	obj := raw.(map[string]any)
	var dropped []string
	for _, name := range keyPointCategories {
		if _, bad := invalid[name]; bad {
			delete(obj, name)
			dropped = append(dropped, name)
		}
	}

	clean, err := json.Marshal(obj)
	if err != nil {
		return models.EmptyKeyPoints(), "encode: " + err.Error(), false
	}
	var out models.KeyPoints
	if err := json.Unmarshal(clean, &out); err != nil {
		return models.EmptyKeyPoints(), "decode: " + err.Error(), false
	}
	if len(dropped) > 0 {
		reason = "invalid categories: " + strings.Join(dropped, ", ")
	}
	return out.Normalize(), reason, true
}

// parseExplanations decodes a section-explanation response. Non-string values
// are dropped; anything that is not a JSON object yields an empty map.
func parseExplanations(response string) (models.SectionExplanations, string, bool) {
	body := ExtractJSONBlock(response)

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return models.SectionExplanations{}, "malformed JSON: " + err.Error(), false
	}

	out := make(models.SectionExplanations, len(raw))
	for section, v := range raw {
		if s, ok := v.(string); ok {
			out[section] = s
		}
	}
	return out, "", true
}
