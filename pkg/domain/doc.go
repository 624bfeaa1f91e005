/*
Package domain contains the core domain models of the calculator.

It defines the key set the editor understands, the per-session State (the
live expression, the last shown result and the calculation History) and the
lifecycle events emitted by the engine. The package is kept pure and free of
I/O so it can be shared by every adapter.

# Key Entities

  - Key: a button label such as "7", "×", "=" or "AC".
  - State: the snapshot of a session (Expression, Result, History).
  - History: the capped, newest-first log of successful evaluations.
  - LifecycleHooks: callbacks for observability.
*/
package domain
