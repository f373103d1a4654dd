package domain

type ProjectStatus string

const (
	ProjectPlanning ProjectStatus = "planning"
	ProjectActive   ProjectStatus = "active"
	ProjectOnHold   ProjectStatus = "on_hold"
	ProjectDone     ProjectStatus = "completed"
	ProjectArchived ProjectStatus = "archived"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskInReview   TaskStatus = "in_review"
	TaskDone       TaskStatus = "done"
	TaskArchived   TaskStatus = "archived"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidTaskPriorities is the canonical set of accepted priority strings.
var ValidTaskPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "urgent": true,
}

type TaskSource string

const (
	SourceManual TaskSource = "manual"
	SourceNLP    TaskSource = "nlp"
	SourceImport TaskSource = "import"
)

type ActivityType string

const (
	ActivityProjectCreated ActivityType = "project_created"
	ActivityProjectUpdated ActivityType = "project_updated"
	ActivityTaskCreated    ActivityType = "task_created"
	ActivityTaskUpdated    ActivityType = "task_updated"
	ActivityTaskAssigned   ActivityType = "task_assigned"
	ActivityTaskCompleted  ActivityType = "task_completed"
	ActivityCommentAdded   ActivityType = "comment_added"
)

type Channel string

const (
	ChannelSlack Channel = "slack"
	ChannelJira  Channel = "jira"
	ChannelEmail Channel = "email"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)
