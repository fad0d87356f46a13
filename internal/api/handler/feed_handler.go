package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courtyard/internal/api/config"
	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves the public sitemap and RSS feed built from the
// active listings.
type FeedHandler struct {
	adSvc *service.AdService
}

func NewFeedHandler(adSvc *service.AdService) *FeedHandler {
	return &FeedHandler{adSvc: adSvc}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

func feedBaseURL() string {
	if config.Cfg != nil {
		return strings.TrimRight(config.Cfg.Server.ExternalURL, "/")
	}
	return ""
}

func adURL(base string, id uint64) string {
	return fmt.Sprintf("%s/ads/%d", base, id)
}

func writeXML(c *gin.Context, doc interface{}) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = c.Writer.WriteString(xml.Header)
	enc := xml.NewEncoder(c.Writer)
	enc.Indent("", "  ")
	_ = enc.Encode(doc)
}

// Sitemap lists the URL of every active listing.
func (h *FeedHandler) Sitemap(c *gin.Context) {
	ads, err := h.adSvc.ListActive(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	base := feedBaseURL()
	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, ad := range ads {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     adURL(base, ad.ID),
			LastMod: ad.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	writeXML(c, set)
}

// Rss renders the active listings as an RSS 2.0 feed.
func (h *FeedHandler) Rss(c *gin.Context) {
	ads, err := h.adSvc.ListActive(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	base := feedBaseURL()
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "Courtyard listings",
			Link:        base,
			Description: "Active classified listings",
		},
	}
	for _, ad := range ads {
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       ad.Title,
			Link:        adURL(base, ad.ID),
			Description: ad.Description,
			GUID:        adURL(base, ad.ID),
			PubDate:     ad.CreatedAt.UTC().Format(time.RFC1123Z),
		})
	}
	writeXML(c, feed)
}
