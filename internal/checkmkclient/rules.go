package checkmkclient

import (
	"context"
	"encoding/json"
)

const familyRules = "rules"

// ListRulesByRuleset lists all rules of one ruleset, across all folders.
func (c *Client) ListRulesByRuleset(ctx context.Context, ruleset string) ([]Rule, error) {
	body := map[string]interface{}{"ruleset_name": ruleset}
	raw, _, err := c.do(ctx, familyRules, "POST", "/domain-types/rule/collections/all", body)
	if err != nil {
		return nil, err
	}
	return decodeRuleList(raw, ruleset)
}

func decodeRuleList(raw json.RawMessage, ruleset string) ([]Rule, error) {
	var env struct {
		Value []struct {
			ID         string                 `json:"id"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding rule list: " + err.Error()}
	}

	rules := make([]Rule, 0, len(env.Value))
	for _, v := range env.Value {
		rules = append(rules, ruleFromExtensions(v.ID, ruleset, v.Extensions))
	}
	return rules, nil
}

func ruleFromExtensions(id, ruleset string, ext map[string]interface{}) Rule {
	r := Rule{ID: id, Ruleset: ruleset}
	if folder, ok := ext["folder"].(string); ok {
		r.FolderPath = folder
	}
	if value, ok := ext["value_raw"].(map[string]interface{}); ok {
		r.Value = value
	} else if raw, ok := ext["value_raw"].(string); ok {
		var v map[string]interface{}
		if json.Unmarshal([]byte(raw), &v) == nil {
			r.Value = v
		}
	}
	if cond, ok := ext["conditions"].(map[string]interface{}); ok {
		r.Conditions = conditionsFromMap(cond)
	}
	return r
}

func conditionsFromMap(m map[string]interface{}) RuleConditions {
	var c RuleConditions
	if hosts, ok := m["host_name"].([]interface{}); ok {
		for _, h := range hosts {
			if s, ok := h.(string); ok {
				c.HostName = append(c.HostName, s)
			}
		}
	}
	if svcs, ok := m["service_description"].([]interface{}); ok {
		for _, s := range svcs {
			if str, ok := s.(string); ok {
				c.ServiceDesc = append(c.ServiceDesc, str)
			}
		}
	}
	return c
}

// GetRule fetches one rule by id, along with its etag.
func (c *Client) GetRule(ctx context.Context, id string) (*Rule, error) {
	raw, etag, err := c.do(ctx, familyRules, "GET", "/objects/rule/"+id, nil)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil, &NotFoundError{ResourceType: "rule", ResourceID: id}
		}
		return nil, err
	}

	var env struct {
		ID         string                 `json:"id"`
		Extensions map[string]interface{} `json:"extensions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding rule: " + err.Error()}
	}
	rulesetName, _ := env.Extensions["ruleset"].(string)
	r := ruleFromExtensions(env.ID, rulesetName, env.Extensions)
	r.Etag = etag
	return &r, nil
}

// CreateRuleParams is the payload for CreateRule.
type CreateRuleParams struct {
	Ruleset    string
	FolderPath string
	Value      map[string]interface{}
	Conditions RuleConditions
}

// CreateRule creates a new rule, returning its assigned id. Temperature-family
// rulesets have their numeric values coerced to float before transmission,
// since Checkmk's valuespec for these rejects bare integers.
func (c *Client) CreateRule(ctx context.Context, p CreateRuleParams) (string, error) {
	value := p.Value
	if IsTemperatureRuleset(p.Ruleset) {
		value = CoerceFloats(value)
	}
	body := map[string]interface{}{
		"ruleset":   p.Ruleset,
		"folder":    p.FolderPath,
		"value_raw": value,
		"conditions": map[string]interface{}{
			"host_name":           p.Conditions.HostName,
			"service_description": p.Conditions.ServiceDesc,
		},
	}
	raw, _, err := c.do(ctx, familyRules, "POST", "/domain-types/rule/collections/all", body)
	if err != nil {
		return "", err
	}
	var env struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", &ValidationError{Message: "decoding created rule: " + err.Error()}
	}
	return env.ID, nil
}

// UpdateRule updates a rule's value under optimistic concurrency: the
// caller supplies the etag it last read. A 412 surfaces as *ConflictError;
// the parameter engine owns the refetch-and-retry policy.
// ruleset is used only to decide whether to coerce integral values to float.
func (c *Client) UpdateRule(ctx context.Context, id, etag, ruleset string, value map[string]interface{}) error {
	if IsTemperatureRuleset(ruleset) {
		value = CoerceFloats(value)
	}
	body := map[string]interface{}{"value_raw": value}
	_, _, err := c.do(ctx, familyRules, "PUT", "/objects/rule/"+id, body, WithEtag(etag))
	return err
}

// DeleteRule deletes a rule.
func (c *Client) DeleteRule(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, familyRules, "DELETE", "/objects/rule/"+id, nil)
	return err
}

// DiscoverRuleset asks Checkmk which ruleset governs a given service name.
func (c *Client) DiscoverRuleset(ctx context.Context, serviceName string) (string, error) {
	body := map[string]interface{}{"service_description": serviceName}
	raw, _, err := c.do(ctx, familyRules, "POST", "/domain-types/ruleset/actions/discover/invoke", body)
	if err != nil {
		return "", err
	}
	var env struct {
		RulesetName string `json:"ruleset_name"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", &ValidationError{Message: "decoding ruleset discovery: " + err.Error()}
	}
	return env.RulesetName, nil
}

// GetRulesetInfo fetches a ruleset's valuespec description.
func (c *Client) GetRulesetInfo(ctx context.Context, ruleset string) (*RulesetInfo, error) {
	raw, _, err := c.do(ctx, familyRules, "GET", "/objects/ruleset/"+ruleset, nil)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil, &NotFoundError{ResourceType: "ruleset", ResourceID: ruleset}
		}
		return nil, err
	}
	var env struct {
		ID         string                 `json:"id"`
		Extensions map[string]interface{} `json:"extensions"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ValidationError{Message: "decoding ruleset info: " + err.Error()}
	}
	info := &RulesetInfo{Name: env.ID}
	if vs, ok := env.Extensions["valuespec"].(map[string]interface{}); ok {
		info.ValueSpec = vs
	}
	if group, ok := env.Extensions["group"].(string); ok {
		info.GroupName = group
	}
	return info, nil
}
