package domain

// DefaultAnswerPrompt is the answer template. The first %s receives the
// grounding transcripts, the second the question.
const DefaultAnswerPrompt = `The following are relevant excerpts from one or more YouTube videos:

%s

Question: %s

Answer the question based on the content above. Follow these guidelines:
1. Find information in the given content that directly relates to the question and answer in detail.
2. Include explanations and examples from the content wherever possible.
3. Write at least three paragraphs, each covering a different aspect or detail.
4. If the information is insufficient or unrelated, state "` + InsufficientInfoPhrase + `" and then offer general information that may be relevant.
5. Do not guess. Use only information actually present in the given content.
6. Quote the relevant parts directly to support your answer. Use double quotes and name the source video.
7. When the topic is medical advice or other expert content, begin with "` + DisclaimerPhrase + `" and recommend consulting a professional.
8. End with a summary of the key points and suggestions for further learning.

Answer:`
