// Package files discovers the monthly index extracts in a data directory.
//
// Extract names carry their month (upload-itemindices202101.csv). The
// Discovery type matches names against the configured prefix, accepts csv
// and xlsx in any case, and returns the files in chronological order.
//
//	discovery := files.NewDiscovery(paths.BaseDir, logger)
//	monthly, err := discovery.FindMonthlyFiles(paths.DataDir, cfg.Dataset.FilePrefix)
package files
