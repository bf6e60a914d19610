// Package catalog holds the compiled-in sign table used when no
// external catalog backend is configured.
package catalog

import "signparty-service/internal/domain"

// DefaultID is the catalog served when clients do not name one.
const DefaultID = "asl-basics"

// Builtin returns the compiled-in catalogs keyed by ID.
func Builtin() map[string][]domain.SignEntry {
	return map[string][]domain.SignEntry{
		DefaultID: builtinSigns(),
	}
}

func builtinSigns() []domain.SignEntry {
	return []domain.SignEntry{
		{VideoRef: "hello.mp4", CorrectAnswer: "Hello", Choices: []string{"Hello", "Goodbye", "Please"}},
		{VideoRef: "thankyou.mp4", CorrectAnswer: "Thank you", Choices: []string{"Sorry", "Thank you", "Welcome"}},
		{VideoRef: "please.mp4", CorrectAnswer: "Please", Choices: []string{"Please", "More", "Stop"}},
		{VideoRef: "sorry.mp4", CorrectAnswer: "Sorry", Choices: []string{"Happy", "Sorry", "Angry"}},
		{VideoRef: "yes.mp4", CorrectAnswer: "Yes", Choices: []string{"No", "Yes", "Maybe"}},
		{VideoRef: "no.mp4", CorrectAnswer: "No", Choices: []string{"No", "Yes", "Stop"}},
		{VideoRef: "help.mp4", CorrectAnswer: "Help", Choices: []string{"Work", "Help", "Play"}},
		{VideoRef: "water.mp4", CorrectAnswer: "Water", Choices: []string{"Milk", "Juice", "Water"}},
		{VideoRef: "eat.mp4", CorrectAnswer: "Eat", Choices: []string{"Eat", "Drink", "Sleep"}},
		{VideoRef: "drink.mp4", CorrectAnswer: "Drink", Choices: []string{"Eat", "Drink", "Cook"}},
		{VideoRef: "family.mp4", CorrectAnswer: "Family", Choices: []string{"Friend", "Family", "Teacher"}},
		{VideoRef: "friend.mp4", CorrectAnswer: "Friend", Choices: []string{"Friend", "Enemy", "Family"}},
		{VideoRef: "love.mp4", CorrectAnswer: "Love", Choices: []string{"Like", "Love", "Hate"}},
		{VideoRef: "happy.mp4", CorrectAnswer: "Happy", Choices: []string{"Sad", "Tired", "Happy"}},
		{VideoRef: "sad.mp4", CorrectAnswer: "Sad", Choices: []string{"Sad", "Happy", "Scared"}},
		{VideoRef: "dog.mp4", CorrectAnswer: "Dog", Choices: []string{"Dog", "Cat", "Bird"}},
		{VideoRef: "cat.mp4", CorrectAnswer: "Cat", Choices: []string{"Dog", "Cat", "Rabbit"}},
		{VideoRef: "school.mp4", CorrectAnswer: "School", Choices: []string{"School", "Home", "Store"}},
		{VideoRef: "home.mp4", CorrectAnswer: "Home", Choices: []string{"School", "Home", "Work"}},
		{VideoRef: "work.mp4", CorrectAnswer: "Work", Choices: []string{"Play", "Rest", "Work"}},
		{VideoRef: "play.mp4", CorrectAnswer: "Play", Choices: []string{"Play", "Work", "Study"}},
		{VideoRef: "more.mp4", CorrectAnswer: "More", Choices: []string{"Less", "More", "Done"}},
		{VideoRef: "finished.mp4", CorrectAnswer: "Finished", Choices: []string{"Start", "Finished", "Wait"}},
		{VideoRef: "name.mp4", CorrectAnswer: "Name", Choices: []string{"Name", "Age", "Sign"}},
	}
}
