package analyzer

import (
	"fmt"
	"time"
)

// buildPrompt hands the model every calendar reference point it needs so
// relative expressions ("tomorrow", "next week") resolve to absolute
// timestamps. The model must answer with a bare JSON object carrying
// exactly a description and a dueDate.
func buildPrompt(marker, content string, now time.Time) string {
	today := now
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)
	nextMonth := now.AddDate(0, 1, 0)
	endOfWeek := upcomingSaturday(now)

	const layout = "2006-01-02"
	return fmt.Sprintf(`You are an assistant that analyzes chat messages containing the "%s" marker to extract task information.

Message: "%s"

Today is: %s (%s)
Tomorrow is: %s (%s)
Next week is: %s
Next month is: %s

Analyze the message and return JSON in exactly this format:
{
  "description": "the cleaned task description (with %s removed)",
  "dueDate": "YYYY-MM-DDTHH:MM:SS or null when no specific time is given"
}

Time resolution rules:
- "today": %sT23:59:59
- "tomorrow": %sT23:59:59
- "next week": %sT23:59:59
- "next month": %sT23:59:59
- "weekend" or "end of week": %sT23:59:59 (this Saturday)
- explicit time of day: "today at 15:30" means %sT15:30:00
- morning hours: "tomorrow 9am" means %sT09:00:00
- no time expression at all: null

Notes:
- description: remove "%s" and the time words, keep only the task content
- dueDate: must be ISO date-time YYYY-MM-DDTHH:MM:SS or null
- when unsure about the time, return null

EXAMPLES:
"%s submit report tomorrow" means {"description": "submit report", "dueDate": "%sT23:59:59"}
"%s team meeting tomorrow at 9am" means {"description": "team meeting", "dueDate": "%sT09:00:00"}
"%s write the report" means {"description": "write the report", "dueDate": null}

Return only the JSON, no other text.`,
		marker,
		content,
		today.Format(layout), today.Weekday(),
		tomorrow.Format(layout), tomorrow.Weekday(),
		nextWeek.Format(layout),
		nextMonth.Format(layout),
		marker,
		today.Format(layout),
		tomorrow.Format(layout),
		nextWeek.Format(layout),
		nextMonth.Format(layout),
		endOfWeek.Format(layout),
		today.Format(layout),
		tomorrow.Format(layout),
		marker,
		marker, tomorrow.Format(layout),
		marker, tomorrow.Format(layout),
		marker,
	)
}

// upcomingSaturday returns the next Saturday strictly after today when
// today already is Saturday.
func upcomingSaturday(now time.Time) time.Time {
	offset := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return now.AddDate(0, 0, offset)
}
