package services

var (
	participationService *ParticipationService
	metricsCollector     *MetricsCollector
	badgeService         *BadgeService
	leaderboardService   *LeaderboardService
	rewardService        *RewardService
)

// Init wires the services to their stores. Called once from main after the
// database connection is up; tests construct services directly with fakes
// instead.
func Init(participations ParticipationStore, badges BadgeStore, rewards RewardStore, users UserStore) {
	participationService = NewParticipationService(participations)
	metricsCollector = NewMetricsCollector(participations)
	badgeService = NewBadgeService(badges, metricsCollector)
	leaderboardService = NewLeaderboardService(participations, badges, users)
	rewardService = NewRewardService(rewards, participations)
}

func GetParticipationService() *ParticipationService { return participationService }
func GetMetricsCollector() *MetricsCollector         { return metricsCollector }
func GetBadgeService() *BadgeService                 { return badgeService }
func GetLeaderboardService() *LeaderboardService     { return leaderboardService }
func GetRewardService() *RewardService               { return rewardService }
