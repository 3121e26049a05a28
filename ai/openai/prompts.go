package openai

const queryTypePromptTemplate = `Classify this query as either "research_question" or "data_lookup".

- research_question: Questions about concepts, interpretations, relationships, causes/effects
- data_lookup: Requests for specific metrics, thresholds, numbers, or exact data points

Query: %s

Respond with only: research_question or data_lookup`

const queryExpansionPromptTemplate = `You are a query expansion engine for a financial/economic research database.

Your task: Generate search queries that approach the question from different angles.

## Guidelines
- Stay CLOSE to the original query - small variations, not big tangents
- Use concrete market terms: "equities", "stocks", "rate cuts", "Fed balance sheet" - not academic jargon
- Each query should be recognizable as related to the original question
- Keep queries simple and searchable

## Think About
- What directly vs indirectly relates to this?
- What precedes, coincides with, or follows from this?
- What causes this vs what results from it?

Generate 4-6 query variations.

Original query: %s
%s
## Output Format
DIMENSION: [short name for this angle]
REASONING: [one sentence - why this angle matters]
QUERY: [the search query]

(repeat for each)`

// refinementSectionTemplate is appended to the expansion prompt on
// refinement rounds. First %s is the missing aspect, second is the
// comma-joined list of dimensions already used.
const refinementSectionTemplate = `
## Refinement
Earlier searches did not produce enough evidence. Bias new angles toward
this missing aspect: %s

Do NOT reuse any of these dimension names (already searched): %s
`

const sufficiencyResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "sufficient": {"type": "boolean"},
    "missing_aspect": {"type": "string"},
    "reason": {"type": "string"}
  },
  "required": ["sufficient"],
  "additionalProperties": false
}`

const sufficiencyPromptTemplate = `You are judging whether retrieved evidence suffices to answer a financial research query.

Query: %s

Evidence summaries (id, similarity score, source, date, snippet):
%s

Judge strictly: the evidence is sufficient only if it directly supports an
answer to the query. Coverage of adjacent topics does not count.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- If insufficient, set "missing_aspect" to a short phrase naming the gap
  (a metric, period, mechanism, or market the evidence lacks).
- "reason" is one sentence at most.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const synthesisResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "what_happened": {"type": "string"},
    "interpretation": {"type": "string"},
    "used_data": {"type": "string"},
    "logic_chains": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "premise": {"type": "string"},
          "conclusion": {"type": "string"},
          "mechanism": {"type": "string"},
          "sources": {"type": "array", "items": {"type": "integer", "minimum": 1}}
        },
        "required": ["premise", "conclusion", "sources"],
        "additionalProperties": false
      }
    }
  },
  "required": ["what_happened", "interpretation", "used_data", "logic_chains"],
  "additionalProperties": false
}`

const synthesisPromptTemplate = `You are analyzing financial research to extract logic chains relevant to a query.

Query: %s

Research Context (numbered sources):
%s

Instructions:
1. Identify logic chains (cause -> effect relationships) relevant to the query
2. Connect chains where one chain's effect matches another's cause to form longer sequences
3. Match shared entities and metrics ACROSS sources; a chain may draw its premise from one source and its conclusion from another
4. Premises must precede conclusions; chains may share a premise
5. When linking is ambiguous, emit fewer, shorter chains instead of guessing

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "sources" lists the source numbers (as shown in the context) that support each chain.
- "what_happened" summarizes the events the sources describe; "interpretation" their reading of it; "used_data" the concrete figures cited.
- If no chains can be extracted, return "logic_chains": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const researchAnswerPromptTemplate = `You are answering a financial research question using ONLY the evidence below.

Query: %s

Synthesized evidence:
%s

Numbered sources:
%s

Instructions:
- Write an explanatory narrative that walks through the causal reasoning.
- Cite sources inline as [n] using the source numbers above. Cite every
  claim; a claim you cannot cite must be dropped.
- If the evidence only partially answers the query, say what is supported
  and name what is missing. Never invent support.`

const lookupAnswerPromptTemplate = `You are answering a data lookup request using ONLY the evidence below.

Query: %s

Synthesized evidence:
%s

Numbered sources:
%s

Instructions:
- Answer in one or two sentences with the specific figure, threshold, or
  data point requested, followed by its citation as [n].
- Use at most two citations.
- If the exact figure is not in the evidence, state that it was not found.
  Never invent a number.`
