package recommend

// Notice titles
const (
	GuidanceTitle    = "🔑 API KEY REQUIRED"
	UnparseableTitle = "⚠️ RECOMMENDATIONS UNAVAILABLE"
)

// GuidanceMessage is shown when no API key is configured. No request is made.
const GuidanceMessage = `No Gemini API key found.
This tool needs a Google Gemini API key to generate course recommendations.
  1. Go to https://aistudio.google.com/app/apikey
  2. Create an API key
  3. Create a .env file in this directory with:
       GEMINI_API_KEY_1=your_api_key_here
     (GEMINI_API_KEY_2 or GEMINI_API_KEY also work)
  4. Run the command again`

// UnparseableMessage replaces the course list when the reply could not be parsed
const UnparseableMessage = "The AI response could not be parsed into course recommendations; " +
	"the roadmap below uses its default step descriptions."

// notSpecified fills optional profile fields in the prompt
const notSpecified = "Not specified"
