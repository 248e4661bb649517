package models

// Difficulty levels assigned to courses and videos.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// DifficultyRank maps difficulty labels onto an ordered scale for
// progression comparisons. Unknown labels rank as Medium.
var DifficultyRank = map[string]int{
	DifficultyEasy:   1,
	DifficultyMedium: 2,
	DifficultyHard:   3,
}

type Video struct {
	ID          string   `bson:"id" json:"id"`
	CourseID    string   `bson:"course_id" json:"course_id"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	URL         string   `bson:"url" json:"url"`
	Thumbnail   string   `bson:"thumbnail" json:"thumbnail"`
	Duration    int      `bson:"duration" json:"duration"`
	Difficulty  string   `bson:"difficulty" json:"difficulty"`
	Topics      []string `bson:"topics" json:"topics"`
	Transcript  string   `bson:"transcript" json:"transcript"`
	Order       int      `bson:"order" json:"order"`
}
