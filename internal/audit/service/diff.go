package service

import (
	"reflect"

	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
)

// buildChanges derives the changes map for an audit entry. The diff is
// always computed here, centrally: upstream handlers may attach full
// before/after snapshots or a pre-computed changes map, but neither is
// trusted to be minimal.
//
// Creation and deletion entries keep the full payload snapshot. Update
// entries retain only fields whose value actually differs.
func buildChanges(operation string, payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}

	if operation != auditdomain.OperationUpdated {
		return payload
	}

	if old, new, ok := snapshots(payload); ok {
		return diffSnapshots(old, new)
	}

	if changes, ok := payload["changes"].(map[string]any); ok {
		return minimizeChanges(changes)
	}

	return payload
}

func snapshots(payload map[string]any) (old, new map[string]any, ok bool) {
	old, okOld := payload["old"].(map[string]any)
	new, okNew := payload["new"].(map[string]any)
	return old, new, okOld && okNew
}

// diffSnapshots compares two snapshots field by field and keeps only
// the keys whose values differ structurally.
func diffSnapshots(old, new map[string]any) map[string]any {
	changes := map[string]any{}

	for field, newValue := range new {
		oldValue, existed := old[field]
		if existed && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes[field] = map[string]any{"old": oldValue, "new": newValue}
	}

	for field, oldValue := range old {
		if _, stillThere := new[field]; !stillThere {
			changes[field] = map[string]any{"old": oldValue, "new": nil}
		}
	}

	return changes
}

// minimizeChanges re-checks a pre-diffed changes map and drops entries
// whose old and new values are in fact equal. Entries that are not
// {old, new} pairs are kept verbatim.
func minimizeChanges(changes map[string]any) map[string]any {
	minimized := map[string]any{}

	for field, value := range changes {
		pair, ok := value.(map[string]any)
		if !ok {
			minimized[field] = value
			continue
		}

		oldValue, hasOld := pair["old"]
		newValue, hasNew := pair["new"]
		if hasOld && hasNew && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		minimized[field] = value
	}

	return minimized
}
