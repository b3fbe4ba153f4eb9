// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf that
// merges several sources into one typed struct.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (passed in as overrides)
//  2. Environment variables (TLSSERVE_SECTION_KEY)
//  3. Configuration file (YAML)
//  4. Default values (whatever the target struct already holds)
package confloader
