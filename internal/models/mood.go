package models

// Mood is a wire-stable mood value shown on a participant's card.
// The set is open: clients may send values added in later revisions,
// so the type is never validated against a closed list.
type Mood string

const (
	// Positive
	MoodHappy     Mood = "happy"
	MoodExcited   Mood = "excited"
	MoodRomantic  Mood = "romantic"
	MoodChill     Mood = "chill"
	MoodGrateful  Mood = "grateful"
	MoodPlayful   Mood = "playful"
	MoodProud     Mood = "proud"
	MoodSafe      Mood = "safe"
	MoodHopeful   Mood = "hopeful"
	MoodEnergetic Mood = "energetic"

	// Neutral / body
	MoodHungry   Mood = "hungry"
	MoodTired    Mood = "tired"
	MoodConfused Mood = "confused"
	MoodBored    Mood = "bored"
	MoodBusy     Mood = "busy"
	MoodFocused  Mood = "focused"
	MoodNumb     Mood = "numb"
	MoodMeh      Mood = "meh"
	MoodCozy     Mood = "cozy"
	MoodWobbly   Mood = "wobbly"

	// Negative
	MoodSad         Mood = "sad"
	MoodAngry       Mood = "angry"
	MoodSick        Mood = "sick"
	MoodStressed    Mood = "stressed"
	MoodAnxious     Mood = "anxious"
	MoodLonely      Mood = "lonely"
	MoodHurt        Mood = "hurt"
	MoodJealous     Mood = "jealous"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodGuilty      Mood = "guilty"
)
