package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a qualification or experience. JSON input may carry it as a string
// or an integer; both decode to the same canonical string, so 7 and "7" are equal.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be a string or an integer, got %s", data)
	}
	*id = ID(strconv.FormatInt(n, 10))
	return nil
}

func (id ID) String() string { return string(id) }
