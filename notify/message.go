package notify

import (
	"fmt"
	"sort"
	"strings"

	"projectflow/model"
)

type Kind string

const (
	KindTaskAssigned Kind = "task_assigned"
	KindTaskComment  Kind = "task_comment"
)

type Recipient struct {
	ID    uint
	Email string
	Name  string
}

func RecipientOf(u model.User) Recipient {
	return Recipient{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Message is one delivery to one user.
type Message struct {
	Kind    Kind
	TaskID  uint
	To      Recipient
	Subject string
	Body    string
	Link    string
}

// TaskLink is the deep link to the task detail view.
func TaskLink(appURL string, taskID uint) string {
	return fmt.Sprintf("%s/tasks/%d", strings.TrimRight(appURL, "/"), taskID)
}

func TaskAssigned(appURL string, to Recipient, task model.Task, projectName, assignedBy string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s!\n\n", to.Name)
	fmt.Fprintf(&b, "You have been assigned to a new task in the project %s.\n\n", projectName)
	b.WriteString("Task Details:\n")
	fmt.Fprintf(&b, "• Name: %s\n", task.Name)
	fmt.Fprintf(&b, "• Description: %s\n", task.Description)
	if task.DueDate != nil {
		fmt.Fprintf(&b, "• Due Date: %s\n", task.DueDate.Format("Jan 02, 2006"))
	}
	if assignedBy != "" {
		fmt.Fprintf(&b, "• Assigned by: %s\n", assignedBy)
	}
	link := TaskLink(appURL, task.ID)
	fmt.Fprintf(&b, "\nView Task Details: %s\n\n", link)
	b.WriteString("Please review the task and update its status as you progress.\n")

	return Message{
		Kind:    KindTaskAssigned,
		TaskID:  task.ID,
		To:      to,
		Subject: "New Task Assignment: " + task.Name,
		Body:    b.String(),
		Link:    link,
	}
}

func TaskComment(appURL string, to Recipient, task model.Task, comment model.Comment, commenter string) Message {
	title := task.Name
	if title == "" {
		title = "Task"
	}
	link := TaskLink(appURL, task.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s!\n\n", to.Name)
	if commenter != "" {
		fmt.Fprintf(&b, "%s commented on %s:\n\n", commenter, title)
	} else {
		fmt.Fprintf(&b, "New comment on %s:\n\n", title)
	}
	fmt.Fprintf(&b, "%s\n\n", comment.Body)
	fmt.Fprintf(&b, "View Task: %s\n", link)

	return Message{
		Kind:    KindTaskComment,
		TaskID:  task.ID,
		To:      to,
		Subject: "New comment on: " + title,
		Body:    b.String(),
		Link:    link,
	}
}

// CommentRecipients picks who hears about a new comment: the assignee
// unless they wrote it, then every earlier commenter except the assignee
// and the author. Ids are unique and in ascending order after the assignee.
func CommentRecipients(assignee *uint, commenter uint, priorCommenters []uint) []uint {
	var out []uint
	seen := map[uint]bool{commenter: true}
	if assignee != nil {
		seen[*assignee] = true
		if *assignee != commenter {
			out = append(out, *assignee)
		}
	}

	var rest []uint
	for _, id := range priorCommenters {
		if !seen[id] {
			seen[id] = true
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}
