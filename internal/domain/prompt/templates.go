package prompt

import (
	"fmt"
	"strings"

	"github.com/okian/chesscoach/internal/domain/stats"
)

const reviewChecklist = `Review checklist:
1. Does "THE ONE MAIN THING" section have at least 5 specific game examples?
2. Are the conclusions logically sound based on the statistics?
3. Is the advice actionable and specific?
4. Are there any contradictions or unsupported claims?
5. Is every referenced game a markdown link to its URL?`

const reviewOutputRule = `IMPORTANT: Return ONLY the final analysis text that should be shown to the student. ` +
	`Do NOT include meta-commentary like "This analysis is good" or "I verified that...". ` +
	`Just return the complete, polished coaching analysis (with any improvements you made). ` +
	`The student should see the coaching advice directly, not your review notes.`

const linkRules = `IMPORTANT: When providing advice, reference specific games WITH THEIR URLs from the data above. ALWAYS include the game URL when referencing a game. Use this exact format:
- "In [Game #3](URL_HERE), you lost on move 24 - review this position to understand the tactical mistake"
- "[Game #1](URL), [Game #4](URL), and [Game #5](URL) show a pattern of losing in similar opening positions around move 12-15"
- "Check [Game #2](URL) at the final moves - this endgame pattern needs practice"

The URL format should be markdown links: [Game #X](full_game_url). This makes it easy for players to click and review the specific games you're referencing. Use concrete game references with links to make the advice actionable and specific.`

const analysisFormat = `**THE ONE MAIN THING TO WORK ON**
This is the MOST IMPORTANT section. As a coach, if you could only give ONE piece of advice that would have the biggest impact on this player's rating and results, what would it be?

Identify the single most critical weakness or pattern holding them back. Then provide:
1. Why this is the #1 priority - YOU MUST provide at least 5 specific game examples (e.g., "Game #2", "Game #5", "Game #8") with brief descriptions of what went wrong in each
2. A specific, step-by-step action plan to address it this week
3. Expected timeline for improvement if they follow the plan
4. How they'll know they've made progress

Be direct and specific. You MUST reference at least 5 specific games in the evidence. This should be your most important coaching advice.

**Additional Patterns & Mistakes**
Identify 2-3 other recurring patterns in the losses (e.g., "losing on time", "weak opening preparation", "tactical oversights in middlegame"). Reference specific Game # examples.

**Concrete Practice Plan**
Based on all the patterns above, provide 3-5 specific daily/weekly practice activities. Be very specific (e.g., "Practice 15 minutes of rook endgame puzzles daily" rather than "study endgames")

**Specific Positions to Review**
List the exact games (by number and URL) that show critical learning moments. Tell them what to look for in each game.

Format your response in a clear, structured way with headers and bullet points. Be encouraging but honest. Focus on what will make the biggest difference. Make sure all conclusions are logically supported by the statistics provided.`

func analysisInstructions(s stats.Statistics) string {
	var sb strings.Builder
	sb.WriteString("As a chess coach analyzing your student's games, provide your analysis in the following format:\n\n")
	sb.WriteString("**Games Analyzed**\n")
	fmt.Fprintf(&sb, "Start by stating: \"Analyzed %d games: %d wins (%.1f%%), %d losses (%.1f%%), %d draws (%.1f%%)\"\n\n",
		s.Total, s.Wins, s.WinPercent, s.Losses, s.LossPercent, s.Draws, s.DrawPercent)
	sb.WriteString(analysisFormat)
	sb.WriteString("\n\n")
	sb.WriteString(linkRules)
	return sb.String()
}
