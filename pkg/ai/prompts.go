package ai

import "fmt"

const taskSchemaInstructions = `Respond with JSON only, no prose, matching exactly:
{
  "tasks": [
    {
      "id": "echo the task's id when editing an existing task, omit for new tasks",
      "assignee_name": "name of the responsible person, or 'Unassigned'",
      "task_description": "specific, actionable description",
      "deadline": "YYYY-MM-DD or null if not mentioned",
      "priority": "high, medium or low, or null if not discussed"
    }
  ]
}`

func extractionPrompt(transcript, additionalContext string) string {
	context := ""
	if additionalContext != "" {
		context = fmt.Sprintf("\nAdditional context from the organizer:\n%s\n", additionalContext)
	}

	return fmt.Sprintf(`You are an expert AI assistant specialized in analyzing meeting transcripts to extract actionable tasks.

Your job is to:
1. Identify clear action items that require someone to DO something
2. Extract the person responsible (assignee) from the conversation
3. Determine priority based on urgency discussed
4. Set reasonable deadlines based on context mentioned
5. Create clear, actionable task descriptions

Rules:
- Only extract tasks that are explicitly actionable (not just discussions)
- Use exact names mentioned in the transcript
- If no assignee is clear, use "Unassigned"
- Make task descriptions specific and actionable

Meeting Transcript:
%s
%s
%s`, transcript, context, taskSchemaInstructions)
}

func modificationPrompt(transcript, currentTasksJSON, instruction string) string {
	return fmt.Sprintf(`You are an AI assistant helping to modify task assignments from a meeting transcript based on user feedback.

Original Meeting Transcript:
%s

Current Task Assignments:
%s

User's Modification Request:
%s

Based on the user's request, return the complete updated task list. Keep the original context, only include actionable tasks, and preserve each unchanged or edited task's "id" field exactly as given above. Omit "id" only for genuinely new tasks.

%s`, transcript, currentTasksJSON, instruction, taskSchemaInstructions)
}
