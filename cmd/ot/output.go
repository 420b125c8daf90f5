package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/plantops/ot/internal/api"
)

// outputJSON outputs data as pretty-printed JSON to stdout.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// outputJSONError writes err as JSON to stderr. The message is the one a
// toast would have shown.
func outputJSONError(err error, code string) {
	errObj := map[string]string{"error": api.UserMessage(err)}
	if code != "" {
		errObj["code"] = code
	}
	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(errObj) // Best effort: nothing left to report to
}
