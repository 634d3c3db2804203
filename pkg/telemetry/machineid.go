// Package telemetry publishes controller I/O activity to external
// observers.
package telemetry

import "github.com/denisbrodbeck/machineid"

// MachineID retrieves the unique ID identifying the host machine. It is
// used to key telemetry topics per monitor instance.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}
