package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// stringsToJSON encodes a string slice as a jsonb column value.
// Encoding a string slice never fails, so errors are ignored.
func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

// jsonToStrings decodes a jsonb column into a string slice.
// Malformed payloads decode to an empty slice rather than failing the read.
func jsonToStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
