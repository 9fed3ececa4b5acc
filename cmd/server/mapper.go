package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// profileMapper renders profile rows in the badger inspector. Other key
// namespaces fall back to the raw default rendering.
func profileMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	if !strings.HasPrefix(key, "profile:") {
		return row
	}

	var record struct {
		Email    string   `json:"email"`
		Role     string   `json:"role"`
		Name     string   `json:"name"`
		Location string   `json:"location"`
		Causes   []string `json:"causes"`
		Complete bool     `json:"complete"`
	}
	if err := json.Unmarshal(val, &record); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}

	row.Type = "PROFILE"
	row.Namespace = record.Role
	row.EntityID = record.Email
	row.Detail = fmt.Sprintf("%s | %s | complete=%t", record.Name, record.Location, record.Complete)
	row.Scores = strings.Join(record.Causes, " ")
	return row
}
