/*
Package companion is a natural-language desktop assistant for Linux.

A user types (or says) a command such as "open VSCode and create a Python file for a
CNN model". The Assistant asks a text-generation model to translate the command into an
ordered list of actions, then executes them one by one: launching applications, running
allow-listed system tasks, and generating files into the editor workspace.

# Architecture

The package follows a Hexagonal Architecture. The orchestration loop lives here; the
interpreter, executor and handlers live under pkg/, and every external system (model
providers, processes, session storage) is reached through the interfaces of pkg/ports.

  - pkg/extract: recovers JSON from free-form model output.
  - pkg/interpreter: prompt, model call and decoding into domain.Action values.
  - pkg/executor: dispatches one action to its handler and returns a status string.
  - pkg/actions: application launcher, system tasks, file creation.
  - pkg/listener: input sources feeding a single consumer.

# Usage

	gen, _ := gemini.New(ctx, os.Getenv("GENAI_API_KEY"))
	catalog := process.NewCatalog(process.DefaultCatalogFile())
	spawner := process.NewSpawner(nil)
	tracker := session.NewTracker(memory.NewStore())

	exec := executor.New(
		actions.NewLauncher(catalog, spawner, tracker),
		actions.NewTasks(process.NewRunner(catalog), nil),
		actions.NewFiles(gen, spawner, tracker),
	)
	assistant := companion.New(interpreter.New(gen), exec)

	out := assistant.Submit(ctx, "open firefox")
	fmt.Println(out.Status) // Opened firefox

Every failure is reported inside the status string; Submit never returns an error.
*/
package companion
