/*
Package ports defines the driven ports (interfaces) for the tally engine.

These interfaces decouple session handling from concrete backends so the same
editor can run against memory, the filesystem or Redis.

# Key Interfaces

  - StateStore: persists and loads calculator session State.
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
