// Copyright (c) Microsoft. All rights reserved.

package workflow

import "fmt"

// Submission is one filled-in matchmaking form. It has no identity and is not
// stored.
type Submission struct {
	Name       string
	Age        int
	Gender     string
	Profession string
	Phone      string
	About      string
}

// Genders lists the gender choices offered by the form.
var Genders = []string{"Male", "Female", "Other"}

const (
	// MinAge and MaxAge bound the form's age slider; DefaultAge is its start value.
	MinAge     = 18
	MaxAge     = 80
	DefaultAge = 25
)

// Prompt returns the user message sent to the model for sub.
func Prompt(sub Submission) string {
	return fmt.Sprintf(`
    A new matchmaking request:

    Name: %s
    Age: %d
    Gender: %s
    Profession: %s
    Phone: %s
    About: %s
    `, sub.Name, sub.Age, sub.Gender, sub.Profession, sub.Phone, sub.About)
}

// UserConfirmation returns the WhatsApp text sent to the submitter.
func UserConfirmation(sub Submission) string {
	return fmt.Sprintf("Hello %s, Rishta Wali Auntie received your profile! 💖 We'll contact you soon.", sub.Name)
}

// AdminNotification returns the WhatsApp text sent to the admin.
func AdminNotification(sub Submission) string {
	return fmt.Sprintf("📥 New Rishta Submission!\n\nName: %s\nAge: %d\nGender: %s\nProfession: %s\nPhone: %s\nAbout: %s",
		sub.Name, sub.Age, sub.Gender, sub.Profession, sub.Phone, sub.About)
}
