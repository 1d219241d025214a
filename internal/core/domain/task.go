package domain

import "fmt"

// TaskType is the closed set of work categories a model can be asked to perform.
type TaskType string

const (
	TaskTextGeneration    TaskType = "text-generation"
	TaskCodeGeneration    TaskType = "code-generation"
	TaskSummarization     TaskType = "summarization"
	TaskQuestionAnswering TaskType = "question-answering"
	TaskClassification    TaskType = "classification"
	TaskExtraction        TaskType = "extraction"
	TaskTranslation       TaskType = "translation"
	TaskAnalysis          TaskType = "analysis"
)

// TaskTypes lists every valid task type in declaration order.
func TaskTypes() []TaskType {
	return []TaskType{
		TaskTextGeneration,
		TaskCodeGeneration,
		TaskSummarization,
		TaskQuestionAnswering,
		TaskClassification,
		TaskExtraction,
		TaskTranslation,
		TaskAnalysis,
	}
}

// ParseTaskType validates a raw string against the closed enumeration.
func ParseTaskType(raw string) (TaskType, error) {
	for _, t := range TaskTypes() {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type: %q", raw)
}
