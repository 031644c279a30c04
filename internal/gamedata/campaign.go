package gamedata

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// CampaignTiers are the task tiers of a campaign week, in display order.
var CampaignTiers = []string{"Bronze", "Silver", "Gold"}

var campaignTaskID = regexp.MustCompile(`^Campaign_(\d+)_(.+)_(\d+)`)

func (g *GameData) populateCampaignTasks() error {
	kingdomID, err := g.CurrentEventKingdom()
	if err != nil {
		return err
	}

	key := strconv.Itoa(kingdomID)
	tiers, ok := g.user.TasksData.CampaignTasks[key]
	if !ok {
		return MissingReferenceError{Kind: "campaign tasks", Key: key, Referrer: "current event"}
	}

	for _, tier := range CampaignTiers {
		raws, ok := tiers[tier]
		if !ok {
			return MissingReferenceError{Kind: "campaign tier", Key: tier, Referrer: ref("kingdom", kingdomID)}
		}
		tasks := make([]CampaignTask, 0, len(raws))
		for _, raw := range raws {
			task, err := g.TransformCampaignTask(raw)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Order < tasks[j].Order
		})
		g.CampaignTasks[strings.ToLower(tier)] = tasks
	}
	return nil
}

// TransformCampaignTask converts one raw task record. The order is parsed
// from the task id unless Campaign.json lists the task, in which case its
// position there wins and the entry supplies Value0 and Value1.
func (g *GameData) TransformCampaignTask(raw json.RawMessage) (CampaignTask, error) {
	var task RawCampaignTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return CampaignTask{}, fmt.Errorf("failed to decode campaign task: %w", err)
	}
	var orig map[string]any
	if err := json.Unmarshal(raw, &orig); err != nil {
		return CampaignTask{}, fmt.Errorf("failed to decode campaign task: %w", err)
	}

	m := campaignTaskID.FindStringSubmatch(task.ID)
	if m == nil {
		return CampaignTask{}, MalformedIdentifierError{ID: task.ID}
	}
	kingdomID, err := strconv.Atoi(m[1])
	if err != nil {
		return CampaignTask{}, MalformedIdentifierError{ID: task.ID}
	}
	level := m[2]
	order, err := strconv.Atoi(m[3])
	if err != nil {
		return CampaignTask{}, MalformedIdentifierError{ID: task.ID}
	}

	var extra *RawCampaignEntry
	entries := g.campaign["Campaign"+level]
	for i := range entries {
		if entries[i].ID == task.ID {
			extra = &entries[i]
			order = i
		}
	}

	if len(task.Rewards) == 0 {
		return CampaignTask{}, MissingReferenceError{Kind: "reward", Key: "0", Referrer: "campaign task " + task.ID}
	}

	value0, value1 := NewCaseText(nil), NewCaseText(nil)
	if extra != nil {
		value0 = NewCaseText(extra.Value0)
		value1 = NewCaseText(extra.Value1)
	}

	return CampaignTask{
		ID:        task.ID,
		Reward:    task.Rewards[0].Amount,
		Condition: task.Condition,
		Order:     order,
		Task:      task.Task,
		Name:      task.TaskName,
		Title:     task.TaskTitle,
		Tags:      strings.Split(task.Tag, ","),
		X:         task.XValue,
		Y:         task.YValue,
		Value0:    value0,
		Value1:    value1,
		C:         NewCaseText(task.CValue),
		D:         NewCaseText(task.DValue),
		KingdomID: kingdomID,
		Orig:      orig,
	}, nil
}
