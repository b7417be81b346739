package wizard

import "strings"

// ExtraMessages are the hardcoded message strings. Remote init data is
// merged over a copy of this table; keys supplied remotely win.
func ExtraMessages() map[string]string {
	return map[string]string{
		"q1": "Are you looking for your own records?",
		"q2": "Select the type of immigration or travel record you are seeking from the list below.",
		"q3": "Select the type of IRS record you are seeking from the list below.",
		"q4": "Select the type of social security record you are seeking from the list below.",
		"q5": "Are you a Veteran?",
		"q6": "Select the type of medical records you are seeking from the list below.",

		"a1":    "Yes",
		"a2":    "No",
		"a3":    "A-File",
		"a4":    "A-Number",
		"a5":    "Naturalization Certificate",
		"a6":    "Records of apprehension, etc.",
		"a7":    "SEVIS and other ICE",
		"a8":    "International travel records, etc.",
		"a9":    "Domestic travel records",
		"a10":   "PNR",
		"a11":   "Visa Records",
		"a12":   "Passport Records",
		"a13":   "Correction of Global Entry",
		"a14-1": "TSA Pre-Check Program",
		"a14-2": "Record of Proceeding",
		"a15":   "Copy or transcript of tax return",
		"a16":   "Information from Open Case Files",
		"a17":   "Other IRS Records",

		"loading": "<p>Loading...</p>",
	}
}

const literalPrefix = "literal:"

// ResolveMessage looks a message reference up in the table. A
// "literal:" prefix escapes lookup and returns the remainder verbatim.
func ResolveMessage(ui map[string]string, mid string) string {
	if strings.HasPrefix(mid, literalPrefix) {
		return mid[len(literalPrefix):]
	}
	if msg, ok := ui[mid]; ok {
		return msg
	}
	return "(missing message: " + mid + ")"
}
