// Package config provides centralized configuration management for priceshift.
// It handles loading configuration from multiple sources, validation, and
// resolution of every input and output path used by a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file (priceshift.yaml, configs/priceshift.yaml or PRICESHIFT_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// The defaults are the parameters of the tampon VAT analysis, so a
// run with no file and no environment needs nothing but the ONS_data directory.
//
// # Environment Variables
//
// All environment variables follow the pattern PRICESHIFT_<SECTION>_<FIELD>:
//
//	PRICESHIFT_LOGGING_LEVEL=debug
//	PRICESHIFT_PATHS_DATA_DIR=/srv/ons
//	PRICESHIFT_ANALYSIS_BASELINE_MONTH=2020-12
//	PRICESHIFT_ANALYSIS_TTEST_WINDOW=6
//	PRICESHIFT_CHART_FORMAT=svg
//
// The basket of goods can only be changed through the YAML file because
// ONS item descriptions contain commas.
//
// # Validation
//
// Load validates the merged configuration with go-playground/validator and
// a few cross-field rules (the policy date must follow the baseline month,
// derived series must reference basket goods).
//
// # Path Management
//
//	paths, err := config.GetPaths(cfg)
//	ref := paths.ReferenceFile
//	out := paths.GetReportPath("summary.csv")
package config
