/*
Package domain contains the core models of the companion pipeline.

It defines what a user command turns into once the model has answered, and the
small amount of state that lives while a command list runs. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Action: a closed set of variants (OpenApp, SystemTask, CreateFile, Quit, Unknown,
    Failure, plus the decode-time Invalid and Unrecognized).
  - ExecContext: per-submission mutable state shared by the actions of one list.
  - EditorSession: the workspace folder created by the most recent fresh editor launch.
  - LifecycleHooks: callbacks for observability around submissions and actions.
*/
package domain
