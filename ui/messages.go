package ui

import "github.com/storyspeak/storyspeak/content"

// generateRequestMsg asks the root model to call the content service.
type generateRequestMsg struct{ req content.Request }

// generateFailedMsg reports a failed generation back to the setup page.
type generateFailedMsg struct{ err error }

// startQuizMsg moves from the reading page to the quiz.
type startQuizMsg struct{}

// quizDoneMsg moves from the quiz to the results page.
type quizDoneMsg struct{}

// newLessonMsg abandons the current lesson and returns to setup.
type newLessonMsg struct{}
