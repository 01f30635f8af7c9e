// Package cli provides the protolens command-line interface.
//
// # Overview
//
// This package implements the `protolens` tool for checking proto files,
// detecting breaking changes against a baseline, renumbering fields, and
// watching a workspace for changes.
//
// # Commands
//
// lint: Check proto files
//
//	protolens lint --dir ./proto --format text
//	protolens lint --dir ./proto --strict  # also run the full compiler
//	protolens lint --rules  # list available rules
//
// breaking: Compare against a baseline tree
//
//	protolens breaking \
//		--dir ./proto \
//		--against ./proto-baseline \
//		--fail-on-wire-breaking
//
// renumber: Reassign field numbers
//
//	protolens renumber --file ./proto/user.proto --write
//	protolens renumber --file ./proto/user.proto --message User --start 10
//
// watch: Re-check files as they change
//
//	protolens watch --dir ./proto
//
// # Configuration
//
// Commands read protolens.yaml from the working directory, or the file named
// by --config. Environment variables override the file:
//
//	export PROTOLENS_LOG_LEVEL="debug"
//	export PROTOLENS_RENUMBER_START="1"
//
// # Related Packages
//
//   - pkg/workspace: Scans and watches the proto tree
//   - pkg/diagnostics: Produces the lint findings
//   - pkg/breaking: Compares against baselines
//   - pkg/renumber: Computes the renumber edits
package cli
