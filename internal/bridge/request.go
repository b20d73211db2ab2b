package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/muurk/tl50ctl/internal/protocol"
)

// Request is one client message. Exactly one of Preset, Command and Mode
// is set.
type Request struct {
	ID      json.RawMessage
	Preset  string
	Command *protocol.Command
	Mode    string
	Fields  map[string]string
	Audible *protocol.Audible
}

// Response is the reply to one Request.
type Response struct {
	ID    json.RawMessage `json:"id,omitempty"`
	OK    bool            `json:"ok"`
	Frame string          `json:"frame,omitempty"`
	Error string          `json:"error,omitempty"`
}

// ParseRequest decodes a client message. Field values of a mode request
// may be given flat ({"mode":"steady","color1":"green",...}) or under
// "fields".
func ParseRequest(data []byte) (Request, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Request{}, fmt.Errorf("malformed request: %w", err)
	}
	if raw == nil {
		return Request{}, errors.New("malformed request: expected a JSON object")
	}

	var req Request
	flat := make(map[string]string)
	for key, value := range raw {
		var err error
		switch key {
		case "id":
			req.ID = value
		case "preset":
			err = json.Unmarshal(value, &req.Preset)
		case "command":
			err = json.Unmarshal(value, &req.Command)
		case "mode":
			err = json.Unmarshal(value, &req.Mode)
		case "fields":
			err = json.Unmarshal(value, &req.Fields)
		case "audible":
			err = json.Unmarshal(value, &req.Audible)
		default:
			var s string
			if json.Unmarshal(value, &s) != nil {
				return Request{}, fmt.Errorf("unknown request key %q", key)
			}
			flat[key] = s
		}
		if err != nil {
			return Request{}, fmt.Errorf("request key %q: %w", key, err)
		}
	}

	if len(flat) > 0 {
		if req.Mode == "" {
			keys := make([]string, 0, len(flat))
			for key := range flat {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			return Request{}, fmt.Errorf("unknown request key %q", keys[0])
		}
		if req.Fields == nil {
			req.Fields = make(map[string]string, len(flat))
		}
		for key, value := range flat {
			if _, dup := req.Fields[key]; dup {
				return Request{}, fmt.Errorf("field %q given twice", key)
			}
			req.Fields[key] = value
		}
	}

	return req, nil
}

// Resolve turns a request into the command to send.
func (r Request) Resolve(presets Presets) (protocol.Command, error) {
	set := 0
	for _, ok := range []bool{r.Preset != "", r.Command != nil, r.Mode != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return protocol.Command{}, errors.New(`request must set exactly one of "preset", "command" or "mode"`)
	}
	if r.Mode == "" && len(r.Fields) > 0 {
		return protocol.Command{}, errors.New(`"fields" requires "mode"`)
	}

	var cmd protocol.Command
	switch {
	case r.Preset != "":
		if presets == nil {
			return protocol.Command{}, fmt.Errorf("unknown preset %q", r.Preset)
		}
		c, err := presets.Preset(r.Preset)
		if err != nil {
			return protocol.Command{}, err
		}
		cmd = c
	case r.Command != nil:
		cmd = *r.Command
	default:
		mode, ok := protocol.LookupMode(r.Mode)
		if !ok {
			return protocol.Command{}, fmt.Errorf("unknown mode %q", r.Mode)
		}
		c, err := mode.CommandFromFields(r.Fields)
		if err != nil {
			return protocol.Command{}, err
		}
		cmd = c
	}

	if r.Audible != nil {
		cmd = cmd.WithAudible(*r.Audible)
	}
	return cmd, nil
}
