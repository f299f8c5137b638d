package answer

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/resumechat/internal/domain/chat"
)

// Fixed replies returned instead of errors.
const (
	ReplySearchError = "I apologize, but I encountered an error while searching for relevant information. " +
		"Please try again later."
	ReplyNoContext = "I apologize, but I couldn't find any relevant information in my records to answer " +
		"your question. Please try asking about something else or rephrase your question."
	ReplyAllFailed = "I apologize, but I'm having trouble accessing my knowledge base at the moment. " +
		"Please try again later."
)

const mergeSystemPrompt = "You are an expert at combining and refining responses to create the most compelling narrative."

func systemPrompt(subject string) string {
	return fmt.Sprintf(`You are %[1]s's personal AI assistant, designed to answer questions about their professional experience.

Your ONLY source of truth is the provided resume content.

IMPORTANT RULES:
1. ONLY use information explicitly present in the provided resume content
2. Do NOT make assumptions or guess. If the answer isn't in the context, say:
   - "That's not mentioned in my records"
   - or "I don't have that information"
3. Be precise and factual. Quote the resume when relevant
4. Never hallucinate or infer from outside knowledge
5. If you're unsure about something, say so rather than guessing

When answering questions:
1. First check if the information exists in the resume content
2. If it exists, quote the relevant section
3. If it doesn't exist, clearly state that the information is not available
4. Never make up or infer information that isn't explicitly stated

Example response format:
"According to my records, [specific information from resume]. This is shown in the resume where it states: '[exact quote from resume]'."

If information is not available:
"I don't have that information in my records about [specific topic]."

Remember: Your primary goal is to provide accurate, factual information based solely on the resume content. Never make assumptions or guesses.`, subject)
}

func groundingPrompt(subject, context string) string {
	return fmt.Sprintf(`IMPORTANT: Here is the ONLY information you should use to answer questions about %s's experience. Do not use any other information or make assumptions:

%s

Remember:
1. ONLY use information from the above context
2. If information is not present, say so
3. Do not make up or infer information
4. Be precise and factual`, subject, context)
}

func mergePrompt(subject string, first, second chat.Draft) string {
	return fmt.Sprintf(`Combine and refine these two responses about %s's experience into one cohesive, natural answer.
Focus on maintaining a professional tone while telling a compelling story about their achievements.

Response 1: %s
Response 2: %s

Refined Answer:`, subject, first.Render(), second.Render())
}

// primaryMessages is system prompt, history, the question, then the grounding block.
func primaryMessages(subject, context, question string, history []chat.Turn) []chat.Message {
	msgs := make([]chat.Message, 0, len(history)+3)
	msgs = append(msgs, chat.Message{Role: chat.RoleSystem, Content: systemPrompt(subject)})
	for _, t := range history {
		msgs = append(msgs, chat.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs,
		chat.Message{Role: chat.RoleUser, Content: question},
		chat.Message{Role: chat.RoleSystem, Content: groundingPrompt(subject, context)},
	)
	return msgs
}

// secondaryMessages is the single-prompt form: instructions, context and question in one turn.
func secondaryMessages(subject, context, question string) []chat.Message {
	var b strings.Builder
	b.WriteString(systemPrompt(subject))
	b.WriteString("\n\nContext: ")
	b.WriteString(context)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return []chat.Message{{Role: chat.RoleUser, Content: b.String()}}
}

func mergeMessages(subject string, first, second chat.Draft) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: mergeSystemPrompt},
		{Role: chat.RoleUser, Content: mergePrompt(subject, first, second)},
	}
}
