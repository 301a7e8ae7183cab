// Package domain contains the core types shared across the simulator:
// recipients, campaigns, and the append-only engagement event log.
package domain
