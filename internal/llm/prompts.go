package llm

const extractPreferencePrompt = `You are a memory extraction system for a scheduling assistant. Analyze the following message and decide whether it states a lasting scheduling preference or constraint (for example: "I hate meetings after 2pm", "I prefer meetings after 6pm tomorrow").

If it does, respond ONLY with a JSON object of the form:
{"value":"<the preference restated in the user's own words>"}

If the message states no lasting scheduling preference, respond with exactly:
NONE

No markdown, no explanation.

Message:
%s`
