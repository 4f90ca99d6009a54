package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeDB is the shared in-memory state behind the per-entity fake stores, so
// cross-entity operations (cascades, folds) see one consistent world.
type fakeDB struct {
	users     map[uuid.UUID]*models.User
	videos    map[uuid.UUID]*models.Video
	comments  map[uuid.UUID]*models.Comment
	tweets    map[uuid.UUID]*models.Tweet
	playlists map[uuid.UUID]*models.Playlist
	likes     []*models.Like
	subs      []*models.Subscription
	members   map[uuid.UUID][]uuid.UUID
	history   map[uuid.UUID][]uuid.UUID
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     make(map[uuid.UUID]*models.User),
		videos:    make(map[uuid.UUID]*models.Video),
		comments:  make(map[uuid.UUID]*models.Comment),
		tweets:    make(map[uuid.UUID]*models.Tweet),
		playlists: make(map[uuid.UUID]*models.Playlist),
		members:   make(map[uuid.UUID][]uuid.UUID),
		history:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (db *fakeDB) addUser(username string) *models.User {
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		FullName: username + " example",
		Avatar:   "https://media.test/avatars/" + username + ".png",
	}
	db.users[user.ID] = user
	return user
}

func (db *fakeDB) addVideo(owner *models.User, title string) *models.Video {
	video := &models.Video{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		VideoFile:   "https://media.test/videos/" + title + ".mp4",
		Thumbnail:   "https://media.test/thumbnails/" + title + ".png",
		Title:       title,
		Description: title + " description",
		IsPublished: true,
		Owner:       *owner,
	}
	db.videos[video.ID] = video
	return video
}

func (db *fakeDB) addComment(video *models.Video, owner *models.User, content string) *models.Comment {
	comment := &models.Comment{
		ID:      uuid.New(),
		VideoID: video.ID,
		OwnerID: owner.ID,
		Content: content,
		Owner:   *owner,
	}
	db.comments[comment.ID] = comment
	return comment
}

func (db *fakeDB) addLike(kind models.LikeTarget, targetID, userID uuid.UUID) {
	db.likes = append(db.likes, &models.Like{
		ID:         uuid.New(),
		TargetKind: kind,
		TargetID:   targetID,
		LikedByID:  userID,
	})
}

func (db *fakeDB) likeCount(kind models.LikeTarget, targetID uuid.UUID) int {
	n := 0
	for _, l := range db.likes {
		if l.TargetKind == kind && l.TargetID == targetID {
			n++
		}
	}
	return n
}

func (db *fakeDB) deleteLikes(keep func(*models.Like) bool) {
	kept := db.likes[:0]
	for _, l := range db.likes {
		if keep(l) {
			kept = append(kept, l)
		}
	}
	db.likes = kept
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

type fakeUserStore struct{ db *fakeDB }

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	for _, u := range s.db.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	s.db.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.db.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, u := range s.db.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	if _, ok := s.db.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	for _, u := range s.db.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := *user
	s.db.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	user, ok := s.db.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	user.RefreshToken = token
	return nil
}

type fakeVideoStore struct{ db *fakeDB }

func (s *fakeVideoStore) Create(ctx context.Context, video *models.Video) error {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	stored := *video
	if owner, ok := s.db.users[video.OwnerID]; ok {
		stored.Owner = *owner
	}
	s.db.videos[video.ID] = &stored
	return nil
}

func (s *fakeVideoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, ok := s.db.videos[id]
	if !ok {
		return nil, nil
	}
	copied := *video
	if owner, ok := s.db.users[video.OwnerID]; ok {
		copied.Owner = *owner
	}
	return &copied, nil
}

func (s *fakeVideoStore) Update(ctx context.Context, video *models.Video) error {
	if _, ok := s.db.videos[video.ID]; !ok {
		return fmt.Errorf("video %s not found", video.ID)
	}
	stored := *video
	s.db.videos[video.ID] = &stored
	return nil
}

func (s *fakeVideoStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if video, ok := s.db.videos[id]; ok {
		video.Views++
	}
	return nil
}

func (s *fakeVideoStore) SearchByText(ctx context.Context, query, order string, offset, limit int) ([]*models.Video, int64, error) {
	var matched []*models.Video
	needle := strings.ToLower(query)
	for _, v := range s.db.videos {
		if !v.IsPublished {
			continue
		}
		if strings.Contains(strings.ToLower(v.Title), needle) ||
			strings.Contains(strings.ToLower(v.Description), needle) {
			copied := *v
			matched = append(matched, &copied)
		}
	}
	return pageSlice(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeVideoStore) SearchByOwnerUsername(ctx context.Context, username, order string, offset, limit int) ([]*models.Video, int64, error) {
	var matched []*models.Video
	for _, v := range s.db.videos {
		owner, ok := s.db.users[v.OwnerID]
		if ok && v.IsPublished && owner.Username == username {
			copied := *v
			matched = append(matched, &copied)
		}
	}
	return pageSlice(matched, offset, limit), int64(len(matched)), nil
}

func (s *fakeVideoStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error) {
	var videos []*models.Video
	for _, v := range s.db.videos {
		if v.OwnerID == ownerID {
			copied := *v
			videos = append(videos, &copied)
		}
	}
	return videos, nil
}

func (s *fakeVideoStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	for _, v := range s.db.videos {
		if v.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *fakeVideoStore) SumViewsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var sum int64
	for _, v := range s.db.videos {
		if v.OwnerID == ownerID {
			sum += v.Views
		}
	}
	return sum, nil
}

func (s *fakeVideoStore) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, v := range s.db.videos {
		if v.OwnerID == ownerID {
			ids = append(ids, v.ID)
		}
	}
	return ids, nil
}

// DeleteCascade mirrors the production transaction: comment likes, comments,
// video likes, playlist memberships and watch history go with the video.
func (s *fakeVideoStore) DeleteCascade(ctx context.Context, videoID uuid.UUID) error {
	commentIDs := make(map[uuid.UUID]bool)
	for id, c := range s.db.comments {
		if c.VideoID == videoID {
			commentIDs[id] = true
		}
	}

	s.db.deleteLikes(func(l *models.Like) bool {
		if l.TargetKind == models.LikeTargetComment && commentIDs[l.TargetID] {
			return false
		}
		if l.TargetKind == models.LikeTargetVideo && l.TargetID == videoID {
			return false
		}
		return true
	})

	for id := range commentIDs {
		delete(s.db.comments, id)
	}

	for playlistID, videoIDs := range s.db.members {
		kept := videoIDs[:0]
		for _, id := range videoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		s.db.members[playlistID] = kept
	}

	for userID, videoIDs := range s.db.history {
		kept := videoIDs[:0]
		for _, id := range videoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		s.db.history[userID] = kept
	}

	delete(s.db.videos, videoID)
	return nil
}

func pageSlice(videos []*models.Video, offset, limit int) []*models.Video {
	if offset >= len(videos) {
		return nil
	}
	end := offset + limit
	if end > len(videos) {
		end = len(videos)
	}
	return videos[offset:end]
}

type fakeCommentStore struct{ db *fakeDB }

func (s *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	stored := *comment
	if owner, ok := s.db.users[comment.OwnerID]; ok {
		stored.Owner = *owner
	}
	s.db.comments[comment.ID] = &stored
	return nil
}

func (s *fakeCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, ok := s.db.comments[id]
	if !ok {
		return nil, nil
	}
	copied := *comment
	if owner, ok := s.db.users[comment.OwnerID]; ok {
		copied.Owner = *owner
	}
	return &copied, nil
}

func (s *fakeCommentStore) ListByVideo(ctx context.Context, videoID uuid.UUID, offset, limit int) ([]*models.Comment, int64, error) {
	var comments []*models.Comment
	for _, c := range s.db.comments {
		if c.VideoID == videoID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	total := int64(len(comments))
	if offset >= len(comments) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(comments) {
		end = len(comments)
	}
	return comments[offset:end], total, nil
}

func (s *fakeCommentStore) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	for _, c := range s.db.comments {
		if c.VideoID == videoID {
			count++
		}
	}
	return count, nil
}

func (s *fakeCommentStore) CountByVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range videoIDs {
		n, _ := s.CountByVideo(ctx, id)
		count += n
	}
	return count, nil
}

func (s *fakeCommentStore) IDsByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]bool, len(videoIDs))
	for _, id := range videoIDs {
		wanted[id] = true
	}
	var ids []uuid.UUID
	for id, c := range s.db.comments {
		if wanted[c.VideoID] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *fakeCommentStore) Update(ctx context.Context, comment *models.Comment) error {
	if _, ok := s.db.comments[comment.ID]; !ok {
		return fmt.Errorf("comment %s not found", comment.ID)
	}
	stored := *comment
	s.db.comments[comment.ID] = &stored
	return nil
}

func (s *fakeCommentStore) DeleteCascade(ctx context.Context, commentID uuid.UUID) error {
	s.db.deleteLikes(func(l *models.Like) bool {
		return !(l.TargetKind == models.LikeTargetComment && l.TargetID == commentID)
	})
	delete(s.db.comments, commentID)
	return nil
}

type fakeLikeStore struct{ db *fakeDB }

func (s *fakeLikeStore) Create(ctx context.Context, like *models.Like) error {
	for _, l := range s.db.likes {
		if l.TargetKind == like.TargetKind && l.TargetID == like.TargetID && l.LikedByID == like.LikedByID {
			return gorm.ErrDuplicatedKey
		}
	}
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	stored := *like
	s.db.likes = append(s.db.likes, &stored)
	return nil
}

func (s *fakeLikeStore) Delete(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	removed := false
	s.db.deleteLikes(func(l *models.Like) bool {
		if l.TargetKind == kind && l.TargetID == targetID && l.LikedByID == userID {
			removed = true
			return false
		}
		return true
	})
	return removed, nil
}

func (s *fakeLikeStore) CountByTarget(ctx context.Context, kind models.LikeTarget, targetID uuid.UUID) (int64, error) {
	return int64(s.db.likeCount(kind, targetID)), nil
}

func (s *fakeLikeStore) CountByTargets(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range targetIDs {
		count += int64(s.db.likeCount(kind, id))
	}
	return count, nil
}

func (s *fakeLikeStore) CountsPerTarget(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(targetIDs))
	for _, id := range targetIDs {
		if n := s.db.likeCount(kind, id); n > 0 {
			counts[id] = int64(n)
		}
	}
	return counts, nil
}

func (s *fakeLikeStore) IsLiked(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	for _, l := range s.db.likes {
		if l.TargetKind == kind && l.TargetID == targetID && l.LikedByID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeLikeStore) LikedTargetsOf(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(targetIDs))
	for _, id := range targetIDs {
		if ok, _ := s.IsLiked(ctx, kind, id, userID); ok {
			liked[id] = true
		}
	}
	return liked, nil
}

func (s *fakeLikeStore) VideoIDsLikedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for i := len(s.db.likes) - 1; i >= 0; i-- {
		l := s.db.likes[i]
		if l.TargetKind == models.LikeTargetVideo && l.LikedByID == userID {
			ids = append(ids, l.TargetID)
		}
	}
	return ids, nil
}

type fakeSubscriptionStore struct{ db *fakeDB }

func (s *fakeSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	for _, existing := range s.db.subs {
		if existing.SubscriberID == sub.SubscriberID && existing.ChannelID == sub.ChannelID {
			return gorm.ErrDuplicatedKey
		}
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	stored := *sub
	s.db.subs = append(s.db.subs, &stored)
	return nil
}

func (s *fakeSubscriptionStore) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	removed := false
	kept := s.db.subs[:0]
	for _, sub := range s.db.subs {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			removed = true
			continue
		}
		kept = append(kept, sub)
	}
	s.db.subs = kept
	return removed, nil
}

func (s *fakeSubscriptionStore) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	for _, sub := range s.db.subs {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (s *fakeSubscriptionStore) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	for _, sub := range s.db.subs {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

func (s *fakeSubscriptionStore) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	for _, sub := range s.db.subs {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSubscriptionStore) ListSubscribers(ctx context.Context, channelID uuid.UUID, offset, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, sub := range s.db.subs {
		if sub.ChannelID == channelID {
			if user, ok := s.db.users[sub.SubscriberID]; ok {
				copied := *user
				users = append(users, &copied)
			}
		}
	}
	return users, nil
}

func (s *fakeSubscriptionStore) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, offset, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, sub := range s.db.subs {
		if sub.SubscriberID == subscriberID {
			if user, ok := s.db.users[sub.ChannelID]; ok {
				copied := *user
				users = append(users, &copied)
			}
		}
	}
	return users, nil
}

type fakeTweetStore struct{ db *fakeDB }

func (s *fakeTweetStore) Create(ctx context.Context, tweet *models.Tweet) error {
	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	stored := *tweet
	if owner, ok := s.db.users[tweet.OwnerID]; ok {
		stored.Owner = *owner
	}
	s.db.tweets[tweet.ID] = &stored
	return nil
}

func (s *fakeTweetStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	tweet, ok := s.db.tweets[id]
	if !ok {
		return nil, nil
	}
	copied := *tweet
	return &copied, nil
}

func (s *fakeTweetStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	for _, t := range s.db.tweets {
		if t.OwnerID == ownerID {
			copied := *t
			tweets = append(tweets, &copied)
		}
	}
	return tweets, nil
}

func (s *fakeTweetStore) Update(ctx context.Context, tweet *models.Tweet) error {
	if _, ok := s.db.tweets[tweet.ID]; !ok {
		return fmt.Errorf("tweet %s not found", tweet.ID)
	}
	stored := *tweet
	s.db.tweets[tweet.ID] = &stored
	return nil
}

func (s *fakeTweetStore) DeleteCascade(ctx context.Context, tweetID uuid.UUID) error {
	s.db.deleteLikes(func(l *models.Like) bool {
		return !(l.TargetKind == models.LikeTargetTweet && l.TargetID == tweetID)
	})
	delete(s.db.tweets, tweetID)
	return nil
}

type fakePlaylistStore struct{ db *fakeDB }

func (s *fakePlaylistStore) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	stored := *playlist
	if owner, ok := s.db.users[playlist.OwnerID]; ok {
		stored.Owner = *owner
	}
	s.db.playlists[playlist.ID] = &stored
	return nil
}

func (s *fakePlaylistStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	playlist, ok := s.db.playlists[id]
	if !ok {
		return nil, nil
	}
	copied := *playlist
	if owner, ok := s.db.users[playlist.OwnerID]; ok {
		copied.Owner = *owner
	}
	return &copied, nil
}

func (s *fakePlaylistStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	for _, p := range s.db.playlists {
		if p.OwnerID == ownerID {
			copied := *p
			playlists = append(playlists, &copied)
		}
	}
	return playlists, nil
}

func (s *fakePlaylistStore) Update(ctx context.Context, playlist *models.Playlist) error {
	if _, ok := s.db.playlists[playlist.ID]; !ok {
		return fmt.Errorf("playlist %s not found", playlist.ID)
	}
	stored := *playlist
	s.db.playlists[playlist.ID] = &stored
	return nil
}

func (s *fakePlaylistStore) Delete(ctx context.Context, playlistID uuid.UUID) error {
	delete(s.db.members, playlistID)
	delete(s.db.playlists, playlistID)
	return nil
}

func (s *fakePlaylistStore) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	for _, id := range s.db.members[playlistID] {
		if id == videoID {
			return gorm.ErrDuplicatedKey
		}
	}
	s.db.members[playlistID] = append(s.db.members[playlistID], videoID)
	return nil
}

func (s *fakePlaylistStore) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	kept := s.db.members[playlistID][:0]
	for _, id := range s.db.members[playlistID] {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	s.db.members[playlistID] = kept
	return nil
}

func (s *fakePlaylistStore) ListVideos(ctx context.Context, playlistID uuid.UUID) ([]*models.Video, error) {
	var videos []*models.Video
	for _, id := range s.db.members[playlistID] {
		if video, ok := s.db.videos[id]; ok {
			copied := *video
			if owner, ok := s.db.users[video.OwnerID]; ok {
				copied.Owner = *owner
			}
			videos = append(videos, &copied)
		}
	}
	return videos, nil
}

type fakeWatchHistoryStore struct{ db *fakeDB }

func (s *fakeWatchHistoryStore) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	for _, id := range s.db.history[userID] {
		if id == videoID {
			return nil
		}
	}
	s.db.history[userID] = append(s.db.history[userID], videoID)
	return nil
}

func (s *fakeWatchHistoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Video, error) {
	var videos []*models.Video
	for _, id := range s.db.history[userID] {
		if video, ok := s.db.videos[id]; ok {
			copied := *video
			videos = append(videos, &copied)
		}
	}
	return videos, nil
}

type fakePublisher struct {
	published []interface{}
}

func (p *fakePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.published = append(p.published, value)
	return nil
}

type fakeMediaStore struct {
	uploads []string
	deleted []string
}

func (m *fakeMediaStore) Put(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	url := "https://media.test/" + kind + "/" + filename
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *fakeMediaStore) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}
