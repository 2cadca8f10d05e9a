package responder

import "github.com/PabloGalante/tasktalk/internal/domain"

var greetingReplies = []string{
	"Hello! I'm your task assistant. I can help you add, complete, show and delete tasks. What would you like to do today?",
	"Hi there! Ready to get organized? I can help you manage your tasks: ask me to add one, show your list or mark something complete.",
	"Hey, welcome back! Need help with your tasks? Try \"add a task\" or \"show my tasks\" to get started.",
}

var boundaryReplies = []string{
	"I'm focused on helping you manage your tasks, so I can only answer task-related questions. Would you like to add a task or review your list?",
	"That's outside what I can help with. I'm here for task-related requests, like adding, completing or organizing your to-dos to boost your productivity.",
	"I can only help with requests related to task management. Try asking me to add, show, complete or delete a task.",
}

var overviewReplies = []string{
	"Here's what I can do with your tasks: add new ones, show your list, mark tasks complete, or delete ones you no longer need. What would you like to do?",
	"I can help you manage your tasks. Try \"add <task>\", \"show my tasks\", \"complete <task>\" or \"delete <task>\".",
}

type operation int

const (
	opAdd operation = iota
	opComplete
	opShow
	opDelete
)

var operationOrder = []operation{opAdd, opComplete, opShow, opDelete}

// operationWords maps input words to the task operation they ask about.
var operationWords = map[string]operation{
	"add":      opAdd,
	"create":   opAdd,
	"new":      opAdd,
	"complete": opComplete,
	"finish":   opComplete,
	"done":     opComplete,
	"mark":     opComplete,
	"show":     opShow,
	"list":     opShow,
	"view":     opShow,
	"see":      opShow,
	"delete":   opDelete,
	"remove":   opDelete,
}

var operationGuidance = map[operation]string{
	opAdd:      "To add a task, tell me what needs doing, for example \"add buy groceries\". You can include a due date and I'll keep it on your list.",
	opComplete: "To complete a task, say \"complete\" followed by the task name, for example \"complete buy groceries\". Completed tasks move out of your active list.",
	opShow:     "To show your tasks, just ask \"show my tasks\". I'll list everything that's still open, with the nearest due dates first.",
	opDelete:   "To delete a task, say \"delete\" followed by the task name. Deleted tasks are removed from your list for good, so double-check before you confirm.",
}

// fallbackReplies are the canned replies substituted when a draft is
// unusable. Each one passes Validate for its category.
var fallbackReplies = map[domain.Category]string{
	domain.CategoryGreeting:    "Hello! I can help you manage your tasks. What would you like to do?",
	domain.CategoryTaskRelated: "I can help you add, complete, show or delete tasks. Tell me which one you need.",
	domain.CategoryNonTask:     "I can only help with task-related requests. Would you like to add or review a task?",
}

const generalReply = "I'm here to help you manage your tasks. You can add, show, complete or delete tasks at any time."
