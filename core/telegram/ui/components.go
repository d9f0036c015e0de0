package ui

import tele "gopkg.in/telebot.v4"

// NewSimpleArticleResult creates an ArticleResult with given ID, title and content.
func NewSimpleArticleResult(id, title, text string) *tele.ArticleResult {
	result := &tele.ArticleResult{
		Title: title,
		Text:  text,
	}
	result.SetResultID(id)
	return result
}

// NewArticleResultMD creates an ArticleResult whose message content is
// rendered in Markdown, with a short description shown in the result list.
func NewArticleResultMD(id, title, description, text string) *tele.ArticleResult {
	result := &tele.ArticleResult{
		Title:       title,
		Description: description,
		Text:        text,
	}
	result.ParseMode = tele.ModeMarkdown
	result.SetResultID(id)
	return result
}
