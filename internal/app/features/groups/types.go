package groups

import "github.com/dalemusser/studyhub/internal/domain/models"

// Catalog views.
const (
	ViewAll      = "all"
	ViewMine     = "mine"
	ViewDiscover = "discover"
)

// groupRow is a group as seen by the signed-in user.
type groupRow struct {
	models.StudyGroup
	Joined    bool `json:"joined"`
	IsCreator bool `json:"is_creator"`
	IsFull    bool `json:"is_full"`
}

func rowFor(g models.StudyGroup, userID string) groupRow {
	return groupRow{
		StudyGroup: g,
		Joined:     g.HasMember(userID),
		IsCreator:  g.CreatedBy == userID,
		IsFull:     g.IsFull(),
	}
}

type listResponse struct {
	View   string     `json:"view"`
	Year   string     `json:"year"`
	Years  []string   `json:"years"`
	Groups []groupRow `json:"groups"`
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MeetingType string `json:"meeting_type"`
	Year        string `json:"year"`
	Schedule    string `json:"schedule"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Category    string `json:"category"`
	IconName    string `json:"icon_name"`
	MaxMembers  int    `json:"max_members"`
}

type viewResponse struct {
	Group    groupRow         `json:"group"`
	Sessions []models.Session `json:"sessions"`
}

type membershipResponse struct {
	GroupID     string `json:"group_id"`
	MemberCount int    `json:"member_count"`
}

type membersResponse struct {
	GroupID     string   `json:"group_id"`
	CreatedBy   string   `json:"created_by"`
	Members     []string `json:"members"`
	MemberCount int      `json:"member_count"`
	MaxMembers  int      `json:"max_members"`
}
