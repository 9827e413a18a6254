package publish

import "sync"

// Notifier surfaces user-facing messages (the mobile app shows these as
// toasts).
type Notifier interface {
	Notify(message, level string)
}

const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Choice is an option offered to the user by a Confirmer.
type Choice string

const (
	ChoiceSaveDraft   Choice = "save-draft"
	ChoiceKeepEditing Choice = "keep-editing"
	ChoiceConfirm     Choice = "confirm"
	ChoiceCancel      Choice = "cancel"
)

// Confirmer asks the user to pick one of the offered choices. The workflow
// never renders dialogs itself; callers plug in whatever prompt mechanism
// their surface has.
type Confirmer interface {
	Confirm(prompt string, choices []Choice) Choice
}

// StaticConfirmer always answers with a fixed choice.
type StaticConfirmer struct { // implements Confirmer
	Choice Choice
}

func (c StaticConfirmer) Confirm(prompt string, choices []Choice) Choice {
	return c.Choice
}

// Notification is a recorded user-facing message.
type Notification struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// MemoryNotifier buffers notifications so a caller can drain them after an
// operation, e.g. into an HTTP response.
type MemoryNotifier struct { // implements Notifier
	mu       sync.Mutex
	messages []Notification
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Notify(message, level string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, Notification{Message: message, Level: level})
}

// Drain returns the buffered notifications and resets the buffer.
func (n *MemoryNotifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.messages
	n.messages = nil
	return out
}
