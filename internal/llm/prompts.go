package llm

// StoryPrompt accepts sentence count, learner level, topic and grammar scope.
const StoryPrompt = `You are a Latin story writer for language learners.

Create a short story of %[1]d sentences in Latin for %[2]s learners about the topic of %[3]s.
The story should use high-frequency vocabulary and simple grammatical structures.
The grammatical scope for the story is: %[4]s.

For each sentence in the story, also generate a prompt that can be used to generate an illustration for the sentence. The image should be kid friendly and in a cartoon style.

Respond ONLY with a JSON object of this shape:
{
  "story": [
    {"sentence": "a sentence from the story in Latin", "prompt": "an illustration prompt for the sentence"}
  ]
}
The "story" array must contain exactly %[1]d items.`

// GlossPrompt accepts the word and the sentence it appears in.
const GlossPrompt = `You are a Latin grammar expert. Provide a detailed analysis for the word "%s" in the context of the sentence "%s".

Analyze the word and provide the following:
1.  A concise English gloss.
2.  A detailed morphological breakdown (part of speech, case, number, gender, tense, voice, mood, etc.).
3.  A brief note on its syntactical role in the sentence.

Respond ONLY with a JSON object:
{"gloss": "English gloss", "morphology": "e.g. Noun: Nom. Sg. Fem.", "syntax": "e.g. Subject of the verb"}`

// GlossPromptNoContext is used when the caller has no sentence for the word.
const GlossPromptNoContext = `You are a Latin grammar expert. Provide a detailed analysis for the word "%s" on its own, giving its most common reading.

Analyze the word and provide the following:
1.  A concise English gloss.
2.  A detailed morphological breakdown (part of speech, case, number, gender, tense, voice, mood, etc.).
3.  A brief note on how the form is typically used in a sentence.

Respond ONLY with a JSON object:
{"gloss": "English gloss", "morphology": "e.g. Noun: Nom. Sg. Fem.", "syntax": "e.g. Usually the subject of a verb"}`

// ExpansionPrompt accepts a single Latin word.
const ExpansionPrompt = `You are an expert Latin linguist and etymologist. Provide a detailed analysis for the word "%[1]s".

The output must be in Markdown format.

First, determine the part of speech for "%[1]s".

If the word is a verb:
1.  **Gloss**: Provide its English definition.
2.  **Principal Parts**: Generate its principal parts.
3.  **Conjugation**: Generate its full conjugation paradigms in a Markdown table. This must include all tenses (Present, Imperfect, Future, Perfect, Pluperfect, Future Perfect), moods (Indicative, Subjunctive, Imperative), and voices (Active and Passive).
4.  **Etymology**: Give a detailed etymology of the word.

If the word is a participle:
1.  **Verb Source**: Identify the verb it is derived from.
2.  **Principal Parts**: Generate the source verb's principal parts.
3.  **Declension**: Generate the full declension paradigms for the participle in a Markdown table, including translations.
4.  **Etymology**: Give a detailed etymology of the source verb.
5.  **Usage**: Give a detailed description of the participle's usage.

If the word is a noun:
1.  **Gloss**: Provide its English definition.
2.  **Declension**: Generate its full declension paradigm in a Markdown table.
3.  **Etymology**: Give a detailed etymology of the word, including its root/stem.

If the word is an adjective:
1.  **Gloss**: Provide its English definition.
2.  **Declension**: Generate its full declension paradigm in a Markdown table.
3.  **Etymology**: Give a detailed etymology of the word, including its root/stem.
4.  **Usage**: Give a detailed description of the adjective's usage.

If the word is any other part of speech (pronoun, adverb, preposition, conjunction, etc.):
1.  **Description**: Describe the word and its function.
2.  **Etymology**: Give a detailed etymology of the word, including its root/stem.
3.  **Usage**: Give a detailed description of the word's usage.

Use Markdown tables for all paradigms (conjugations and declensions).

Respond ONLY with a JSON object: {"expansion": "the full Markdown analysis"}`

// ExpansionContextSuffix is appended to ExpansionPrompt when a sentence is known.
const ExpansionContextSuffix = `

The word appears in the sentence "%s". Where the form is ambiguous, prefer the reading that fits this sentence.`

// IllustrationPrompt accepts one Latin sentence.
const IllustrationPrompt = `Generate a kid friendly color illustration in a cartoon style for the following Latin sentence:

Sentence: %s`
