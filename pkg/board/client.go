package board

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/jupyterhub/prboard/pkg/fields"
	"github.com/jupyterhub/prboard/pkg/github"
)

// FieldNotFoundError means a field name was referenced that the board does
// not carry. Since field verification runs before reconciliation this is a
// programming error, not an expected runtime condition.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("project field %q not found", e.Field)
}

// OptionNotFoundError means a single-select value was produced outside the
// field's declared option set.
type OptionNotFoundError struct {
	Field  string
	Option string
}

func (e *OptionNotFoundError) Error() string {
	return fmt.Sprintf("option %q not found on project field %q", e.Option, e.Field)
}

// Option is one allowed choice of a single-select field.
type Option struct {
	ID   string
	Name string
}

// Field is one field definition on the project board.
type Field struct {
	ID       string
	Name     string
	DataType fields.DataType
	Options  []Option
}

func (f *Field) option(name string) (*Option, error) {
	for i := range f.Options {
		if f.Options[i].Name == name {
			return &f.Options[i], nil
		}
	}
	return nil, &OptionNotFoundError{Field: f.Name, Option: name}
}

// Project is the board itself: its node id plus its field definitions.
type Project struct {
	ID     string
	Fields []*Field
}

func (p *Project) field(name string) (*Field, error) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field, nil
		}
	}
	return nil, &FieldNotFoundError{Field: name}
}

const projectQuery = `
query ($organization: String!, $number: Int!) {
  organization(login: $organization) {
    projectV2(number: $number) {
      id
      fields(first: 100) {
        nodes {
          ... on ProjectV2FieldCommon {
            id
            name
            dataType
          }
          ... on ProjectV2SingleSelectField {
            options {
              id
              name
            }
          }
        }
      }
    }
  }
}`

const itemsQuery = `
query ($projectId: ID!, $cursor: String) {
  node(id: $projectId) {
    ... on ProjectV2 {
      items(first: 100, after: $cursor) {
        nodes {
          id
          content {
            ... on PullRequest {
              id
              url
            }
          }
          fieldValues(first: 50) {
            nodes {
              ... on ProjectV2ItemFieldTextValue {
                text
                field { ... on ProjectV2FieldCommon { name } }
              }
              ... on ProjectV2ItemFieldNumberValue {
                number
                field { ... on ProjectV2FieldCommon { name } }
              }
              ... on ProjectV2ItemFieldDateValue {
                date
                field { ... on ProjectV2FieldCommon { name } }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                name
                field { ... on ProjectV2FieldCommon { name } }
              }
            }
          }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}`

const addItemMutation = `
mutation ($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
    item { id }
  }
}`

const deleteItemMutation = `
mutation ($projectId: ID!, $itemId: ID!) {
  deleteProjectV2Item(input: {projectId: $projectId, itemId: $itemId}) {
    deletedItemId
  }
}`

const clearValueMutation = `
mutation ($projectId: ID!, $itemId: ID!, $fieldId: ID!) {
  clearProjectV2ItemFieldValue(input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId}) {
    projectV2Item { id }
  }
}`

const createFieldMutation = `
mutation ($projectId: ID!, $name: String!, $dataType: ProjectV2CustomFieldType!, $options: [ProjectV2SingleSelectFieldOptionInput!]) {
  createProjectV2Field(input: {projectId: $projectId, name: $name, dataType: $dataType, singleSelectOptions: $options}) {
    projectV2Field { ... on ProjectV2FieldCommon { id } }
  }
}`

// Client talks to one organization project board. Call LoadProject before
// anything else.
type Client struct {
	gql          *github.GraphQLClient
	organization string
	number       int
	project      *Project
	// field name -> declared data type, used to reconstruct stored
	// values from raw items
	types map[string]fields.DataType
}

func NewClient(gql *github.GraphQLClient, organization string, number int, specs []fields.Spec) *Client {
	return &Client{
		gql:          gql,
		organization: organization,
		number:       number,
		types:        fields.Types(specs),
	}
}

// LoadProject resolves the project's node id and field definitions.
func (c *Client) LoadProject() error {
	data, err := c.gql.Query(projectQuery, map[string]interface{}{
		"organization": c.organization,
		"number":       c.number,
	})
	if err != nil {
		return errors.Wrapf(err, "could not load project %d for %s", c.number, c.organization)
	}

	projectNode := data.Get("organization.projectV2")
	if !projectNode.Exists() || projectNode.Get("id").String() == "" {
		return errors.Errorf("project %d not found in organization %s", c.number, c.organization)
	}

	project := &Project{ID: projectNode.Get("id").String()}
	for _, node := range projectNode.Get("fields.nodes").Array() {
		field := &Field{
			ID:       node.Get("id").String(),
			Name:     node.Get("name").String(),
			DataType: fields.DataType(node.Get("dataType").String()),
		}
		for _, option := range node.Get("options").Array() {
			field.Options = append(field.Options, Option{
				ID:   option.Get("id").String(),
				Name: option.Get("name").String(),
			})
		}
		project.Fields = append(project.Fields, field)
	}
	c.project = project
	return nil
}

// Project returns the loaded project definition.
func (c *Client) Project() *Project {
	return c.project
}

// EnsureFields idempotently creates any of the required fields missing
// from the board. Fields that exist with the wrong data type or with
// missing single-select options are an error; we can't fix those without
// destroying data. With dryRun set, missing fields are only logged.
func (c *Client) EnsureFields(specs []fields.Spec, dryRun bool) error {
	created := 0
	for _, spec := range specs {
		existing, err := c.project.field(spec.Name)
		if err == nil {
			if existing.DataType != spec.DataType {
				return errors.Errorf("project field %q has data type %s, want %s", spec.Name, existing.DataType, spec.DataType)
			}
			if err := verifyOptions(existing, spec); err != nil {
				return err
			}
			continue
		}

		if dryRun {
			log.Infof("dry-run: would create project field %q (%s)", spec.Name, spec.DataType)
			continue
		}

		log.Infof("creating project field %q (%s)", spec.Name, spec.DataType)
		variables := map[string]interface{}{
			"projectId": c.project.ID,
			"name":      spec.Name,
			"dataType":  string(spec.DataType),
		}
		if spec.DataType == fields.SingleSelect {
			options := make([]map[string]interface{}, 0, len(spec.Options))
			for _, name := range spec.Options {
				options = append(options, map[string]interface{}{
					"name":        name,
					"color":       "GRAY",
					"description": "",
				})
			}
			variables["options"] = options
		}
		if _, err := c.gql.Query(createFieldMutation, variables); err != nil {
			return errors.Wrapf(err, "could not create project field %q", spec.Name)
		}
		created++
	}

	if created > 0 {
		// reload so the new field and option ids are known
		return c.LoadProject()
	}
	return nil
}

func verifyOptions(existing *Field, spec fields.Spec) error {
	for _, name := range spec.Options {
		if _, err := existing.option(name); err != nil {
			return errors.Wrapf(err, "project field %q is missing a required option", spec.Name)
		}
	}
	return nil
}

// Items lists every item on the board, fully materializing all pages.
// Stored field values are reconstructed into typed values using the
// declared data type of each tracked field; untracked fields are ignored.
func (c *Client) Items() ([]Item, error) {
	var items []Item
	cursor := ""
	for {
		variables := map[string]interface{}{"projectId": c.project.ID}
		if cursor != "" {
			variables["cursor"] = cursor
		}
		data, err := c.gql.Query(itemsQuery, variables)
		if err != nil {
			return nil, errors.Wrap(err, "could not list project items")
		}

		itemsNode := data.Get("node.items")
		for _, node := range itemsNode.Get("nodes").Array() {
			items = append(items, parseItem(node, c.types))
		}
		pageInfo := itemsNode.Get("pageInfo")
		if !pageInfo.Get("hasNextPage").Bool() {
			return items, nil
		}
		cursor = pageInfo.Get("endCursor").String()
	}
}

func parseItem(node gjson.Result, types map[string]fields.DataType) Item {
	item := Item{
		ID:        node.Get("id").String(),
		ContentID: node.Get("content.id").String(),
		URL:       node.Get("content.url").String(),
		Values:    map[string]*fields.Value{},
	}
	for _, fv := range node.Get("fieldValues.nodes").Array() {
		name := fv.Get("field.name").String()
		dataType, tracked := types[name]
		if !tracked {
			continue
		}
		if value := parseValue(fv, dataType); value != nil {
			item.Values[name] = value
		}
	}
	return item
}

func parseValue(fv gjson.Result, dataType fields.DataType) *fields.Value {
	switch dataType {
	case fields.Number:
		if raw := fv.Get("number"); raw.Exists() {
			return fields.NumberValue(raw.Float())
		}
	case fields.Date:
		if raw := fv.Get("date"); raw.Exists() {
			return parseDate(raw.String())
		}
	case fields.SingleSelect:
		if raw := fv.Get("name"); raw.Exists() {
			return fields.OptionValue(raw.String())
		}
	default:
		if raw := fv.Get("text"); raw.Exists() {
			return fields.TextValue(raw.String())
		}
	}
	return nil
}

// the API has returned both bare dates and full timestamps here
func parseDate(raw string) *fields.Value {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return fields.DateValue(t)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return fields.DateValue(t)
	}
	log.WithField("date", raw).Warning("could not parse stored date value")
	return nil
}

// AddItem adds the pull request to the board and returns the new item id.
func (c *Client) AddItem(contentID string) (string, error) {
	data, err := c.gql.Query(addItemMutation, map[string]interface{}{
		"projectId": c.project.ID,
		"contentId": contentID,
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not add content %s to project", contentID)
	}
	return data.Get("addProjectV2ItemById.item.id").String(), nil
}

// DeleteItem removes a board item and returns the deleted item id.
func (c *Client) DeleteItem(itemID string) (string, error) {
	data, err := c.gql.Query(deleteItemMutation, map[string]interface{}{
		"projectId": c.project.ID,
		"itemId":    itemID,
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not delete project item %s", itemID)
	}
	return data.Get("deleteProjectV2Item.deletedItemId").String(), nil
}

// SetItemValue writes one field value. The mutation shape depends on the
// field's declared data type, with single-select names resolved to their
// option ids.
func (c *Client) SetItemValue(itemID, fieldName string, value *fields.Value) error {
	field, err := c.project.field(fieldName)
	if err != nil {
		return err
	}

	var valueDefinition, valueArgument string
	var variable interface{}
	switch field.DataType {
	case fields.Number:
		valueDefinition, valueArgument = "$value: Float!", "number: $value"
		variable = value.Number
	case fields.Date:
		valueDefinition, valueArgument = "$value: Date!", "date: $value"
		variable = value.Date.Format("2006-01-02")
	case fields.SingleSelect:
		option, err := field.option(value.Option)
		if err != nil {
			return err
		}
		valueDefinition, valueArgument = "$value: String!", "singleSelectOptionId: $value"
		variable = option.ID
	default:
		valueDefinition, valueArgument = "$value: String!", "text: $value"
		variable = value.Text
	}

	mutation := fmt.Sprintf(`
mutation ($projectId: ID!, $itemId: ID!, $fieldId: ID!, %s) {
  updateProjectV2ItemFieldValue(input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: {%s}}) {
    projectV2Item { id }
  }
}`, valueDefinition, valueArgument)

	_, err = c.gql.Query(mutation, map[string]interface{}{
		"projectId": c.project.ID,
		"itemId":    itemID,
		"fieldId":   field.ID,
		"value":     variable,
	})
	if err != nil {
		return errors.Wrapf(err, "could not set %q on project item %s", fieldName, itemID)
	}
	return nil
}

// ClearItemValue unsets one field value.
func (c *Client) ClearItemValue(itemID, fieldName string) error {
	field, err := c.project.field(fieldName)
	if err != nil {
		return err
	}
	_, err = c.gql.Query(clearValueMutation, map[string]interface{}{
		"projectId": c.project.ID,
		"itemId":    itemID,
		"fieldId":   field.ID,
	})
	if err != nil {
		return errors.Wrapf(err, "could not clear %q on project item %s", fieldName, itemID)
	}
	return nil
}
