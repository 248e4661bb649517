package service

import (
	"context"
	"fmt"
	"sort"

	"learnhub/internal/models"
	"learnhub/internal/repository"
)

// MasteryThreshold is the per-topic score above which a topic counts as
// mastered and stops attracting recommendations.
const MasteryThreshold = 75.0

type NextVideoRecommendation struct {
	Video         models.Video       `json:"video"`
	Reason        string             `json:"reason"`
	MasteryScores map[string]float64 `json:"mastery_scores"`
}

type RecommendationService struct {
	Videos   *repository.VideoRepository
	Progress *repository.ProgressRepository
	Mastery  *MasteryService
}

func NewRecommendationService(videos *repository.VideoRepository, progress *repository.ProgressRepository, mastery *MasteryService) *RecommendationService {
	return &RecommendationService{Videos: videos, Progress: progress, Mastery: mastery}
}

func (s *RecommendationService) NextVideo(ctx context.Context, user *models.User) (*NextVideoRecommendation, error) {
	mastery, err := s.Mastery.ScoreMap(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Progress.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	videos, err := s.Videos.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, ErrNotFound
	}

	video, reason := PickNextVideo(videos, progress, mastery, user)
	return &NextVideoRecommendation{
		Video:         video,
		Reason:        reason,
		MasteryScores: mastery,
	}, nil
}

// PickNextVideo is the deterministic recommendation core: choose the best
// unfinished video given the user's progress, per-topic mastery, and
// difficulty band. In-progress videos always win; completed videos are
// excluded; when everything is done, the first video is offered for review.
func PickNextVideo(videos []models.Video, progress []models.VideoProgress, mastery map[string]float64, user *models.User) (models.Video, string) {
	byVideo := make(map[string]models.VideoProgress, len(progress))
	for _, p := range progress {
		byVideo[p.VideoID] = p
	}

	var lastWatched *models.Video
	if len(progress) > 0 {
		sorted := make([]models.VideoProgress, len(progress))
		copy(sorted, progress)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		})
		for i := range videos {
			if videos[i].ID == sorted[0].VideoID {
				lastWatched = &videos[i]
				break
			}
		}
	}

	type candidate struct {
		video  models.Video
		score  float64
		reason string
	}
	var candidates []candidate
	for _, video := range videos {
		p, watched := byVideo[video.ID]
		if watched && p.Completed {
			continue
		}
		if watched {
			candidates = append(candidates, candidate{
				video:  video,
				score:  1000,
				reason: fmt.Sprintf("Continue watching '%s' (%.0f%% completed)", video.Title, p.WatchPercentage),
			})
			continue
		}
		score, reason := scoreCandidate(video, user, mastery, lastWatched)
		candidates = append(candidates, candidate{video: video, score: score, reason: reason})
	}

	if len(candidates) == 0 {
		return videos[0], "Congratulations! Review from the beginning"
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates[0].video, candidates[0].reason
}

func scoreCandidate(video models.Video, user *models.User, mastery map[string]float64, lastWatched *models.Video) (float64, string) {
	var score float64
	var reasons []string

	// Mastery fit: topics below the threshold still need work; fully
	// mastered videos drop to the bottom of the list.
	if len(video.Topics) > 0 && len(mastery) > 0 {
		var sum float64
		for _, topic := range video.Topics {
			sum += mastery[topic]
		}
		avg := sum / float64(len(video.Topics))
		switch {
		case avg >= MasteryThreshold:
			score -= 50
		case avg >= 40:
			score += 40
			reasons = append(reasons, fmt.Sprintf("Optimal challenge level for %s", video.Topics[0]))
		default:
			score += 30
			reasons = append(reasons, fmt.Sprintf("Build foundation in %s", video.Topics[0]))
		}
	} else if video.Difficulty == user.InitialLevel {
		score += 35
		reasons = append(reasons, fmt.Sprintf("Matches your %s level", user.InitialLevel))
	}

	// Difficulty band progression.
	userLevel := models.DifficultyRank[user.InitialLevel]
	if userLevel == 0 {
		userLevel = models.DifficultyRank[models.DifficultyMedium]
	}
	videoLevel := models.DifficultyRank[video.Difficulty]
	if videoLevel == 0 {
		videoLevel = models.DifficultyRank[models.DifficultyMedium]
	}
	switch {
	case videoLevel == userLevel:
		score += 20
	case videoLevel == userLevel+1:
		score += 15
		reasons = append(reasons, "Next difficulty level")
	}

	// Early playlist positions get a small sequential-ordering bonus.
	if video.Order < 10 {
		score += float64(10 - video.Order)
	}

	// Staying inside the course the user last watched beats jumping around.
	if lastWatched != nil && video.CourseID == lastWatched.CourseID {
		score += 100
		reasons = append(reasons, "Continue in your current course")
	}

	reason := fmt.Sprintf("Learn %s", video.Title)
	if len(reasons) > 0 {
		reason = reasons[0]
	}
	return score, reason
}
