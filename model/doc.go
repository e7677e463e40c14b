/*
Package model provides recommenders which predict held-out ratings.

  - KNN: neighborhood-based collaborative filtering, user-based or item-based, with
    pluggable similarity metrics and aggregation functions.
  - UserAverage and ItemAverage: baselines predicting the mean rating of the user or item.
*/
package model
