package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moviecms/models"
)

// Resolver 实体解析器：按自然键查找，不存在则创建最小记录
// 查找路径永远不覆盖已有字段（详情字段只归专门的同步任务管）。
// 并发创建同一个自然键时靠唯一索引兜底：插入失败的一方重读赢家的记录。
type Resolver struct {
	db *gorm.DB
}

// NewResolver 创建实体解析器
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveGenre 按TMDB类型ID解析类型，不存在则懒创建
func (r *Resolver) ResolveGenre(tmdbID int64, name string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询类型失败: %w", err)
	}

	genre = models.Genre{TmdbID: tmdbID, Name: name}
	if err := r.db.Create(&genre).Error; err != nil {
		// 唯一索引冲突：并发任务已经创建，重读即可
		var existing models.Genre
		if e := r.db.Where("tmdb_id = ?", tmdbID).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建类型失败: %w", err)
	}
	return &genre, nil
}

// ResolveCast 按TMDB人物ID解析演职人员，不存在则用提示字段懒创建
func (r *Resolver) ResolveCast(tmdbID int64, name, profilePath string) (*models.Cast, error) {
	var cast models.Cast
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&cast).Error
	if err == nil {
		return &cast, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询演职人员失败: %w", err)
	}

	cast = models.Cast{TmdbID: tmdbID, Name: name, ProfilePath: profilePath}
	if err := r.db.Create(&cast).Error; err != nil {
		var existing models.Cast
		if e := r.db.Where("tmdb_id = ?", tmdbID).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建演职人员失败: %w", err)
	}
	return &cast, nil
}

// ResolveAttributionUser 按外部用户名解析系统归因用户
// 邮箱由用户名合成，作为唯一键；独立于电影写入，归因用户创建失败不会
// 回滚同批次已落库的电影。
func (r *Resolver) ResolveAttributionUser(username, displayName string) (*models.User, error) {
	email := fmt.Sprintf("tmdb_%s@system.local", username)

	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询归因用户失败: %w", err)
	}

	user = models.User{Email: email, FullName: displayName, Provider: "TMDB"}
	if err := r.db.Create(&user).Error; err != nil {
		var existing models.User
		if e := r.db.Where("email = ?", email).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建归因用户失败: %w", err)
	}
	return &user, nil
}
