package diag

import (
	"encoding/json"
	"log"
)

// LogJSON emits a labelled payload, marshalled as JSON, to the process
// log when enabled and to fn when one is supplied.
func LogJSON(enabled bool, fn func(label, payload string), label string, value any) {
	if !enabled && fn == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		emit(enabled, fn, label, "<marshal error: "+err.Error()+">")
		return
	}
	emit(enabled, fn, label, string(data))
}

// LogText emits a labelled raw payload.
func LogText(enabled bool, fn func(label, payload string), label string, text string) {
	if !enabled && fn == nil {
		return
	}
	emit(enabled, fn, label, text)
}

// LogError emits a labelled error payload. Errors exposing a raw API
// body via RawJSON() are logged with that body instead of the message.
func LogError(enabled bool, fn func(label, payload string), label string, err error) {
	if err == nil || (!enabled && fn == nil) {
		return
	}
	payload := err.Error()
	if raw, ok := err.(interface{ RawJSON() string }); ok {
		if body := raw.RawJSON(); body != "" {
			payload = body
		}
	}
	emit(enabled, fn, label, payload)
}

func emit(enabled bool, fn func(label, payload string), label, payload string) {
	if fn != nil {
		fn(label, payload)
	}
	if enabled {
		log.Printf("%s: %s", label, payload)
	}
}
