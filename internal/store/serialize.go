package store

import "encoding/json"

// Serialize encodes an object into the self-describing binary payload
// stored in raw_definitions.data_blob (§4.7). JSON is used rather
// than a binary codec because it keeps data_blob trivially
// inspectable and round-trippable without a schema registry, and no
// example repo in the pack reaches for a binary serialization library
// for this kind of row payload.
func Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Deserialize decodes a data_blob payload back into the given
// pointer target, completing the round-trip invariant of §8.
func Deserialize(blob []byte, v any) error {
	return json.Unmarshal(blob, v)
}
