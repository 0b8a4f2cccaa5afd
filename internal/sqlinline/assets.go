package sqlinline

const QInsertAsset = `--sql 84e89199-0f83-4110-88d6-6be530444544
insert into assets(
  id,
  business_id,
  kind,
  content,
  prompt,
  aspect_ratio,
  style_preset,
  style_id,
  subject_id,
  model_tier,
  created_at
) values (
  gen_random_uuid(),
  $1::uuid,
  $2::text,
  $3::text,
  $4::text,
  $5::text,
  nullif($6::text, ''),
  nullif($7::text, ''),
  nullif($8::text, ''),
  $9::text,
  now()
) returning id, created_at;
`

const QSelectAssetByID = `--sql 9a81f8b6-fff2-469b-b661-ca8198ae667f
select
  id,
  business_id,
  kind,
  content,
  prompt,
  aspect_ratio,
  coalesce(style_preset, ''),
  coalesce(style_id, ''),
  coalesce(subject_id, ''),
  model_tier,
  created_at
from assets
where id = $1::uuid
limit 1;
`

const QListAssetsByBusiness = `--sql bbda8971-3def-48ef-bd0f-823aa0515839
select
  id,
  business_id,
  kind,
  content,
  prompt,
  aspect_ratio,
  coalesce(style_preset, ''),
  coalesce(style_id, ''),
  coalesce(subject_id, ''),
  model_tier,
  created_at
from assets
where business_id = $1::uuid
order by created_at desc
limit $2::int offset $3::int;
`
