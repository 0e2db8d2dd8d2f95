// Package matrixvault is the composition root for matrix persistence.
//
// It wires the core matrix type and its bulk I/O service to the filesystem
// adapter, so callers configure everything through functional options.
//
// Every matrix lives in its own file named Prefix + index + Extension
// ("matrix0.txt", "matrix1.txt", ...). Concurrent writers that use distinct
// directories or disjoint index ranges never share a file and need no locks.
//
// Formats:
//
//   - text: "rows cols" header, then one ", "-separated line per row.
//   - binary: little-endian int32 rows, int32 cols, then float64 values.
//   - json / yaml: an array of row arrays.
//
// Usage:
//
//	svc, err := matrixvault.New("./matrices",
//		matrixvault.WithFormat("binary"),
//		matrixvault.WithLogger(logger),
//	)
//
//	err = svc.WriteBatches(ctx, matrices, 4)
//	back, err := svc.ReadArray(ctx)
package matrixvault
