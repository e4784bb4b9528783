// Package main provides the school-admin CLI tool for managing the school backend.
package main

import (
	"os"

	"github.com/classpoint/school-backend/cmd/school-admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
