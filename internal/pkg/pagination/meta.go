package pagination

import (
	"strconv"
	"strings"
)

const (
	PrevLabel = "&laquo; Previous"
	NextLabel = "Next &raquo;"
	Ellipsis  = "..."

	windowBefore = 4
	windowAfter  = 5
)

// Link 分页链接，url 为空表示不可点击
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Meta 分页元信息，from/to 为 1 起始的闭区间，空页时为 nil
type Meta struct {
	CurrentPage  int     `json:"currentPage"`
	PerPage      int     `json:"perPage"`
	Total        int64   `json:"total"`
	LastPage     int     `json:"lastPage"`
	From         *int64  `json:"from"`
	To           *int64  `json:"to"`
	Path         string  `json:"path"`
	FirstPageURL string  `json:"firstPageUrl"`
	LastPageURL  *string `json:"lastPageUrl"`
	PrevPageURL  *string `json:"prevPageUrl"`
	NextPageURL  *string `json:"nextPageUrl"`
	Links        []Link  `json:"links"`
}

// Build 根据页码、页大小与总数生成分页元信息，纯函数
func Build(path string, page, perPage int, total int64) Meta {
	if page < 1 {
		page = 1
	}
	if total < 0 {
		total = 0
	}

	meta := Meta{
		CurrentPage:  page,
		PerPage:      perPage,
		Total:        total,
		Path:         path,
		FirstPageURL: PageURL(path, 1),
	}
	if perPage <= 0 {
		meta.Links = []Link{{Label: PrevLabel}, {Label: NextLabel}}
		return meta
	}

	meta.LastPage = LastPage(total, perPage)
	if meta.LastPage > 0 {
		meta.LastPageURL = urlPtr(path, meta.LastPage)
	}

	offset := int64(page-1) * int64(perPage)
	if offset < total {
		from := offset + 1
		to := min(offset+int64(perPage), total)
		meta.From = &from
		meta.To = &to
	}

	if page > 1 {
		meta.PrevPageURL = urlPtr(path, page-1)
	}
	if page < meta.LastPage {
		meta.NextPageURL = urlPtr(path, page+1)
	}

	meta.Links = buildLinks(path, page, meta.LastPage, meta.PrevPageURL, meta.NextPageURL)
	return meta
}

// LastPage ceil(total/perPage)
func LastPage(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// PageURL 在 path 上追加 page 参数
func PageURL(path string, page int) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "page=" + strconv.Itoa(page)
}

func urlPtr(path string, page int) *string {
	u := PageURL(path, page)
	return &u
}

// buildLinks 窗口为 [page-4, page+5]，窗口外保留首尾页并用省略号隔开
func buildLinks(path string, page, lastPage int, prev, next *string) []Link {
	links := make([]Link, 0, windowBefore+windowAfter+6)
	links = append(links, Link{URL: prev, Label: PrevLabel})

	start := max(1, page-windowBefore)
	end := min(lastPage, page+windowAfter)
	if start > end {
		return append(links, Link{URL: next, Label: NextLabel})
	}

	if start > 1 {
		links = append(links, Link{URL: urlPtr(path, 1), Label: "1", Active: page == 1})
		if start > 2 {
			links = append(links, Link{Label: Ellipsis})
		}
	}

	for i := start; i <= end; i++ {
		links = append(links, Link{URL: urlPtr(path, i), Label: strconv.Itoa(i), Active: i == page})
	}

	if end < lastPage {
		if end < lastPage-1 {
			links = append(links, Link{Label: Ellipsis})
		}
		links = append(links, Link{URL: urlPtr(path, lastPage), Label: strconv.Itoa(lastPage), Active: page == lastPage})
	}

	links = append(links, Link{URL: next, Label: NextLabel})
	return links
}
