package audithook

// Audit event actions. Each constant corresponds to one ext lifecycle hook
// and becomes the Action field of the audit event.
const (
	ActionProcessStarted     = "execution.process_started"
	ActionProcessFailed      = "execution.process_failed"
	ActionExecutionCompleted = "execution.completed"
	ActionExecutionFailed    = "execution.failed"
	ActionShutdown           = "controller.shutdown"
)

// CategoryExecution groups every action emitted by this extension.
const CategoryExecution = "controller.execution"

// Resource types used as the Resource field in audit events.
const (
	ResourceExecution  = "execution"
	ResourceController = "controller"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionProcessStarted,
		ActionProcessFailed,
		ActionExecutionCompleted,
		ActionExecutionFailed,
		ActionShutdown,
	}
}
