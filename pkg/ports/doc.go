/*
Package ports defines the driven ports (interfaces) for the companion pipeline.

These interfaces decouple the core logic from external implementations, allowing
the pipeline to work with various model providers, process launchers and session stores.

# Key Interfaces

  - TextGenerator: Turns one prompt into one completion (Gemini, Ollama, scripted).
  - Spawner: Starts and runs operating system processes.
  - SessionStore: Keeps the editor session record.
  - Readiness: Waits for a launched application before dependent actions run.
*/
package ports
