package board

import "strings"

// Entity key layout on top of the store's namespace prefix:
//
//	group:<id>        record: name, link
//	group:<id>:users  set of member identities
//	group:<id>:tasks  set of task ids
//	user:<id>:groups  set of group ids
//	task:<id>         record: group_id, name, description, customer, status
const (
	groupPrefix     = "group:"
	usersSuffix     = ":users"
	tasksSuffix     = ":tasks"
	userPrefix      = "user:"
	userGroupSuffix = ":groups"
	taskPrefix      = "task:"
)

func groupKey(id string) string      { return groupPrefix + id }
func groupUsersKey(id string) string { return groupPrefix + id + usersSuffix }
func groupTasksKey(id string) string { return groupPrefix + id + tasksSuffix }
func userGroupsKey(id string) string { return userPrefix + id + userGroupSuffix }
func taskKey(id string) string       { return taskPrefix + id }

// groupIDFromKey extracts the id from a bare "group:<id>" key. The set
// keys sharing the prefix report ok=false.
func groupIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, groupPrefix)
	if !ok || id == "" {
		return "", false
	}
	if strings.HasSuffix(id, usersSuffix) || strings.HasSuffix(id, tasksSuffix) {
		return "", false
	}
	return id, true
}
