package catalog

import "wizkid-challenge/internal/domain"

// Builtin returns the question bank shipped with the binary.
func Builtin() domain.Catalog {
	return FromQuestions(builtinQuestions())
}

func builtinQuestions() []domain.Question {
	return []domain.Question{
		// Math
		{ID: "math-01", Subject: domain.SubjectMath, Text: "What is 7 × 8?", Options: []string{"54", "56", "58", "64"}, CorrectIndex: 1, Explanation: "7 groups of 8 make 56."},
		{ID: "math-02", Subject: domain.SubjectMath, Text: "What is 3/4 written as a decimal?", Options: []string{"0.34", "0.70", "0.75", "1.33"}, CorrectIndex: 2, Explanation: "3 divided by 4 is 0.75."},
		{ID: "math-03", Subject: domain.SubjectMath, Text: "Solve for x: 2x + 6 = 14", Options: []string{"3", "4", "5", "10"}, CorrectIndex: 1, Explanation: "Subtract 6 to get 2x = 8, then divide by 2."},
		{ID: "math-04", Subject: domain.SubjectMath, Text: "What is 15% of 200?", Options: []string{"15", "20", "30", "35"}, CorrectIndex: 2, Explanation: "10% is 20 and 5% is 10, so 15% is 30."},
		{ID: "math-05", Subject: domain.SubjectMath, Text: "How many degrees are in the angles of a triangle?", Options: []string{"90", "180", "270", "360"}, CorrectIndex: 1, Explanation: "The interior angles of any triangle add up to 180°."},
		{ID: "math-06", Subject: domain.SubjectMath, Text: "What is the area of a rectangle 6 cm by 4 cm?", Options: []string{"10 cm²", "20 cm²", "24 cm²", "48 cm²"}, CorrectIndex: 2, Explanation: "Area is length times width: 6 × 4 = 24."},
		{ID: "math-07", Subject: domain.SubjectMath, Text: "Which number is prime?", Options: []string{"21", "27", "29", "33"}, CorrectIndex: 2, Explanation: "29 has no divisors other than 1 and itself."},
		{ID: "math-08", Subject: domain.SubjectMath, Text: "What is (-3) × (-5)?", Options: []string{"-15", "-8", "8", "15"}, CorrectIndex: 3, Explanation: "A negative times a negative is positive."},

		// Writing
		{ID: "writing-01", Subject: domain.SubjectWriting, Text: "Which word is a synonym for \"happy\"?", Options: []string{"Gloomy", "Joyful", "Angry", "Tired"}, CorrectIndex: 1, Explanation: "Joyful means full of happiness."},
		{ID: "writing-02", Subject: domain.SubjectWriting, Text: "Choose the correctly spelled word.", Options: []string{"Recieve", "Receive", "Receeve", "Riceive"}, CorrectIndex: 1, Explanation: "I before E except after C: receive."},
		{ID: "writing-03", Subject: domain.SubjectWriting, Text: "Which sentence uses \"their\" correctly?", Options: []string{"Their going home.", "Put it over their.", "Their dog is friendly.", "Their is a cat."}, CorrectIndex: 2, Explanation: "\"Their\" shows possession."},
		{ID: "writing-04", Subject: domain.SubjectWriting, Text: "What is the antonym of \"ancient\"?", Options: []string{"Old", "Modern", "Historic", "Aged"}, CorrectIndex: 1, Explanation: "Modern is the opposite of ancient."},
		{ID: "writing-05", Subject: domain.SubjectWriting, Text: "Which word is a verb?", Options: []string{"Quickly", "Beautiful", "Run", "Happiness"}, CorrectIndex: 2, Explanation: "Run is an action word."},
		{ID: "writing-06", Subject: domain.SubjectWriting, Text: "\"The wind whispered through the trees\" is an example of…", Options: []string{"Simile", "Personification", "Alliteration", "Hyperbole"}, CorrectIndex: 1, Explanation: "Giving the wind a human action is personification."},
		{ID: "writing-07", Subject: domain.SubjectWriting, Text: "Which punctuation ends a question?", Options: []string{".", "!", "?", ";"}, CorrectIndex: 2, Explanation: "Questions end with a question mark."},

		// General knowledge
		{ID: "gk-01", Subject: domain.SubjectGeneralKnowledge, Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectIndex: 1, Explanation: "Iron oxide dust makes Mars look red."},
		{ID: "gk-02", Subject: domain.SubjectGeneralKnowledge, Text: "What gas do plants absorb from the air?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, CorrectIndex: 2, Explanation: "Plants use carbon dioxide for photosynthesis."},
		{ID: "gk-03", Subject: domain.SubjectGeneralKnowledge, Text: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectIndex: 3, Explanation: "The Pacific covers about a third of the planet."},
		{ID: "gk-04", Subject: domain.SubjectGeneralKnowledge, Text: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, CorrectIndex: 2, Explanation: "Africa, Antarctica, Asia, Australia, Europe, North and South America."},
		{ID: "gk-05", Subject: domain.SubjectGeneralKnowledge, Text: "What is the powerhouse of the cell?", Options: []string{"Nucleus", "Ribosome", "Mitochondria", "Membrane"}, CorrectIndex: 2, Explanation: "Mitochondria produce most of the cell's energy."},
		{ID: "gk-06", Subject: domain.SubjectGeneralKnowledge, Text: "Who wrote \"Romeo and Juliet\"?", Options: []string{"Charles Dickens", "William Shakespeare", "Mark Twain", "Jane Austen"}, CorrectIndex: 1, Explanation: "Shakespeare wrote it in the 1590s."},
		{ID: "gk-07", Subject: domain.SubjectGeneralKnowledge, Text: "What is the freezing point of water in Celsius?", Options: []string{"-10°C", "0°C", "10°C", "32°C"}, CorrectIndex: 1, Explanation: "Water freezes at 0°C (32°F)."},
		{ID: "gk-08", Subject: domain.SubjectGeneralKnowledge, Text: "Which is the longest river in the world?", Options: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, CorrectIndex: 1, Explanation: "The Nile is usually measured as the longest."},
	}
}
