package questionnaire

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// node is a questionnaire item with the linkId of its parent.
type node struct {
	item   *Item
	parent string
}

func index(q *Questionnaire) map[string]node {
	nodes := make(map[string]node)
	var visit func(items []Item, parent string)
	visit = func(items []Item, parent string) {
		for i := range items {
			it := &items[i]
			if _, dup := nodes[it.LinkID]; !dup {
				nodes[it.LinkID] = node{item: it, parent: parent}
			}
			visit(it.Item, it.LinkID)
		}
	}
	visit(q.Item, "")
	return nodes
}

// ValidateAgainst checks r against the questionnaire it answers. Every
// response item must match an item of q by linkId and sit under the same
// parent; each answer must have the value type the item declares; a
// non-repeating item takes at most one answer; choice answers must come
// from the item's options or value set; disabled items take no answers.
// A completed response must answer every enabled required question.
func (r *Response) ValidateAgainst(q *Questionnaire) error {
	var col issue.Collector
	if r.Questionnaire != "" && q.URL != "" {
		want, _ := primitive.ParseCanonical(r.Questionnaire)
		if want.URL() != q.URL {
			col.Add(issue.Invariant("QuestionnaireResponse.questionnaire",
				"response answers "+want.URL()+", not "+q.URL))
		}
	}

	nodes := index(q)
	answers := r.Answers()
	var visit func(items []ResponseItem, path, parent string)
	visit = func(items []ResponseItem, path, parent string) {
		for i := range items {
			at := issue.Index(path, i)
			it := &items[i]
			n, ok := nodes[it.LinkID]
			if !ok {
				col.Add(issue.UnknownLinkID(issue.Join(at, "linkId"), it.LinkID))
				continue
			}
			if n.parent != parent {
				col.Add(issue.Invariant(at, "item "+it.LinkID+" is not nested under "+describeParent(n.parent)))
			}
			checkAnswers(n.item, it, at, answers, &col)
			for j := range it.Answer {
				visit(it.Answer[j].Item, issue.Join(issue.Index(issue.Join(at, "answer"), j), "item"), it.LinkID)
			}
			visit(it.Item, issue.Join(at, "item"), it.LinkID)
		}
	}
	visit(r.Item, "QuestionnaireResponse.item", "")

	if r.Status == ResponseCompleted {
		requireAnswers(q.Item, answers, &col)
	}
	return col.Err()
}

func describeParent(linkID string) string {
	if linkID == "" {
		return "the response root"
	}
	return "item " + linkID
}

func checkAnswers(def *Item, it *ResponseItem, path string, answers map[string][]Value, col *issue.Collector) {
	if len(it.Answer) == 0 {
		return
	}
	if !Enabled(def, answers) {
		col.Add(issue.Invariant(issue.Join(path, "answer"), "item "+it.LinkID+" is disabled and cannot have answers"))
		return
	}
	if !def.IsQuestion() {
		actual := it.Answer[0].Value.Type()
		if actual == "" {
			actual = "item"
		}
		col.Add(issue.AnswerType(issue.Join(path, "answer"), it.LinkID, def.Type, actual))
		return
	}
	if len(it.Answer) > 1 && !def.IsRepeating() {
		col.Add(issue.MaxCount(issue.Join(path, "answer"), 1, len(it.Answer)))
	}
	expected := def.AnswerTypes()
	for i := range it.Answer {
		at := issue.Index(issue.Join(path, "answer"), i)
		v := it.Answer[i].Value
		actual := v.Type()
		if actual == "" {
			continue
		}
		if !slices.Contains(expected, actual) {
			col.Add(issue.AnswerType(at, it.LinkID, def.Type, actual))
			continue
		}
		if def.MaxLength != nil && v.String != "" && utf8.RuneCountInString(v.String) > def.MaxLength.Value() {
			col.Add(issue.Invariant(issue.Join(at, "valueString"),
				"answer to "+it.LinkID+" exceeds maxLength "+strconv.Itoa(def.MaxLength.Value())))
		}
		checkOption(def, v, at, col)
	}
}

// checkOption verifies a choice answer against the item's answerOption
// list, or its answerValueSet when the value set is loaded. Open-choice
// items accept any string and any coding outside the options.
func checkOption(def *Item, v Value, path string, col *issue.Collector) {
	if def.Type != TypeChoice {
		return
	}
	if len(def.AnswerOption) > 0 {
		for _, opt := range def.AnswerOption {
			if opt.Value.Equal(v) {
				return
			}
		}
		col.Add(issue.Binding(issue.Join(path, "valueCoding"), codeOf(v), "answerOption of "+def.LinkID))
		return
	}
	if def.AnswerValueSet == "" || v.Coding == nil {
		return
	}
	vs := strings.SplitN(def.AnswerValueSet, "|", 2)[0]
	if member, known := terminology.Default().InValueSet(vs, v.Coding.System, v.Coding.Code); known && !member {
		col.Add(issue.Binding(issue.Join(path, "valueCoding"), v.Coding.Code, vs))
	}
}

func codeOf(v Value) string {
	if v.Coding != nil {
		return v.Coding.Code
	}
	return v.String
}

// requireAnswers reports enabled required questions without an answer.
// Children of an unanswered optional group are not required.
func requireAnswers(items []Item, answers map[string][]Value, col *issue.Collector) {
	for i := range items {
		it := &items[i]
		if !Enabled(it, answers) {
			continue
		}
		switch {
		case it.Type == TypeGroup:
			if it.IsRequired() || answeredBelow(it.Item, answers) {
				requireAnswers(it.Item, answers, col)
			}
		case it.IsQuestion():
			if it.IsRequired() && len(answers[it.LinkID]) == 0 {
				col.Add(issue.Required("QuestionnaireResponse.item.where(linkId='" + it.LinkID + "').answer"))
			}
			if len(answers[it.LinkID]) > 0 {
				requireAnswers(it.Item, answers, col)
			}
		}
	}
}

func answeredBelow(items []Item, answers map[string][]Value) bool {
	for i := range items {
		if len(answers[items[i].LinkID]) > 0 || answeredBelow(items[i].Item, answers) {
			return true
		}
	}
	return false
}

// Enabled reports whether item is enabled given the answers so far, keyed
// by linkId. Items without enableWhen are always enabled. With several
// conditions, enableBehavior "any" needs one to hold and "all" (the
// default) needs every one.
func Enabled(item *Item, answers map[string][]Value) bool {
	if len(item.EnableWhen) == 0 {
		return true
	}
	anyOf := item.EnableBehavior == "any"
	for _, ew := range item.EnableWhen {
		ok := ew.holds(answers[ew.Question])
		if anyOf && ok {
			return true
		}
		if !anyOf && !ok {
			return false
		}
	}
	return !anyOf
}

// holds evaluates one condition against the answers to its question.
func (ew EnableWhen) holds(got []Value) bool {
	want := ew.Answer()
	switch ew.Operator {
	case "exists":
		return want.Boolean != nil && (len(got) > 0) == *want.Boolean
	case "=":
		for _, v := range got {
			if v.Equal(want) {
				return true
			}
		}
		return false
	case "!=":
		for _, v := range got {
			if v.Equal(want) {
				return false
			}
		}
		return true
	case ">", "<", ">=", "<=":
		for _, v := range got {
			if c, ok := v.Compare(want); ok && satisfies(ew.Operator, c) {
				return true
			}
		}
		return false
	}
	return false
}

func satisfies(op string, c int) bool {
	switch op {
	case ">":
		return c > 0
	case "<":
		return c < 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	}
	return false
}
